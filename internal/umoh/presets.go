package umoh

import "reflect"

// Permission is a named preset over the three access flags of a space.
type Permission string

const (
	PermissionPublic                     Permission = "PUBLIC"
	PermissionPreview                    Permission = "PREVIEW"
	PermissionPrivateApprovalRequired    Permission = "PRIVATE_APPROVAL_REQUIRED"
	PermissionPrivateApprovalNotRequired Permission = "PRIVATE_APPROVAL_NOT_REQUIRED"
	PermissionCustom                     Permission = "CUSTOM"
)

type permissionFlags struct {
	limitedToCardOwners   bool
	fullyPrivate          bool
	defaultProfileVisible bool
}

var permissionPresets = map[Permission]permissionFlags{
	PermissionPublic:                     {false, false, true},
	PermissionPreview:                    {true, false, true},
	PermissionPrivateApprovalRequired:    {true, true, false},
	PermissionPrivateApprovalNotRequired: {true, true, true},
}

// PermissionOf maps a space's access flags to a preset, or
// PermissionCustom when no preset matches.
func PermissionOf(s Space) Permission {
	flags := permissionFlags{
		limitedToCardOwners:   s.IsAccessLimitedToOnlyCardOwners,
		fullyPrivate:          s.IsFullyPrivate,
		defaultProfileVisible: s.DefaultProfileVisible,
	}
	for preset, want := range permissionPresets {
		if flags == want {
			return preset
		}
	}
	return PermissionCustom
}

// ApplyPermission sets the access flags of s to the given preset.
// PermissionCustom leaves the flags untouched.
func ApplyPermission(s *Space, p Permission) {
	flags, ok := permissionPresets[p]
	if !ok {
		return
	}
	s.IsAccessLimitedToOnlyCardOwners = flags.limitedToCardOwners
	s.IsFullyPrivate = flags.fullyPrivate
	s.DefaultProfileVisible = flags.defaultProfileVisible
}

// ImageShape is a named preset over a space's image configuration.
type ImageShape string

const (
	ShapeCircleDefault      ImageShape = "CIRCLE_DEFAULT"
	ShapeRectangleHeight200 ImageShape = "RECTANGLE_HEIGHT_200"
	ShapeRectangleHeight300 ImageShape = "RECTANGLE_HEIGHT_300"
	ShapeCustom             ImageShape = "CUSTOM"
)

// The default circle shape means no image config at all.
var imageShapePresets = map[ImageShape]*ImageConfig{
	ShapeCircleDefault: nil,
	ShapeRectangleHeight200: {
		FitType:      "contain",
		BorderRadius: 0,
		Width:        "100%",
		Height:       "200px",
	},
	ShapeRectangleHeight300: {
		FitType:      "contain",
		BorderRadius: 0,
		Width:        "100%",
		Height:       "300px",
	},
}

// ImageShapeOf maps a space's image config to a preset. A nil config is the
// default circle; an unrecognized config is ShapeCustom.
func ImageShapeOf(s Space) ImageShape {
	if s.ImageConfig == nil {
		return ShapeCircleDefault
	}
	for preset, want := range imageShapePresets {
		if preset == ShapeCircleDefault {
			continue
		}
		if reflect.DeepEqual(s.ImageConfig, want) {
			return preset
		}
	}
	return ShapeCustom
}

// ApplyImageShape sets the image config of s to the given preset.
// ShapeCustom leaves the config untouched.
func ApplyImageShape(s *Space, shape ImageShape) {
	preset, ok := imageShapePresets[shape]
	if !ok {
		return
	}
	if preset == nil {
		s.ImageConfig = nil
		return
	}
	cp := *preset
	s.ImageConfig = &cp
}

// ImageShapeLabels are the display names of the image shape presets.
var ImageShapeLabels = map[ImageShape]string{
	ShapeCircleDefault:      "Circle (Default)",
	ShapeRectangleHeight200: "Rectangle (Height: 200px)",
	ShapeRectangleHeight300: "Rectangle (Height: 300px)",
	ShapeCustom:             "Custom",
}

// PermissionLabels are the display names of the permission presets.
var PermissionLabels = map[Permission]string{
	PermissionPublic:                     "Public",
	PermissionPreview:                    "Preview",
	PermissionPrivateApprovalRequired:    "Private (Approval required)",
	PermissionPrivateApprovalNotRequired: "Private (Approval not required)",
	PermissionCustom:                     "Custom",
}

// UpsertLocalizedText inserts or replaces the entry for language in texts
// and returns the updated slice. An empty text removes the entry.
func UpsertLocalizedText(texts []LocalizedText, language, text string) []LocalizedText {
	for i, lt := range texts {
		if lt.Language != language {
			continue
		}
		if text == "" {
			return append(texts[:i], texts[i+1:]...)
		}
		texts[i].Text = text
		return texts
	}
	if text == "" {
		return texts
	}
	return append(texts, LocalizedText{Language: language, Text: text})
}

// LocalizedTextFor returns the entry for language, or the empty string.
func LocalizedTextFor(texts []LocalizedText, language string) string {
	for _, lt := range texts {
		if lt.Language == language {
			return lt.Text
		}
	}
	return ""
}
