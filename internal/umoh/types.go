package umoh

// LocalizedText is a per-language display string.
type LocalizedText struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// ContactPointType classifies a contact point value.
type ContactPointType string

const (
	ContactEmail   ContactPointType = "EMAIL"
	ContactPhone   ContactPointType = "PHONE"
	ContactWebsite ContactPointType = "WEBSITE"
)

// ContactPoint is a single contact entry on a space (email, phone or URL).
type ContactPoint struct {
	Type  ContactPointType `json:"type"`
	Value string           `json:"value"`
}

// ImageConfig controls how profile images render on a space.
type ImageConfig struct {
	FitType      string `json:"fitType"`
	BorderRadius int    `json:"borderRadius"`
	Width        string `json:"width"`
	Height       string `json:"height"`
}

// CategoryItem is one selectable profile category on a space. Identity is
// the ID string; localized names carry the display text per language.
type CategoryItem struct {
	ID             string          `json:"id"`
	Color          string          `json:"color,omitempty"`
	LocalizedNames []LocalizedText `json:"localizedNames"`
	IsPrivate      bool            `json:"isPrivate,omitempty"`
}

// CategoryConfig is a space's profile category configuration.
type CategoryConfig struct {
	DefaultLanguage         string          `json:"defaultLanguage"`
	CategoryItems           []CategoryItem  `json:"categoryItems"`
	LocalizedCategoryLabels []LocalizedText `json:"localizedCategoryLabels"`
	MaxItemNumber           int             `json:"maxItemNumber"`
}

// ProfileCreateConfig configures the profile creation form of a space.
type ProfileCreateConfig struct {
	DefaultLanguage               string          `json:"defaultLanguage"`
	SupportedSocials              []string        `json:"supportedSocials,omitempty"`
	LocalizedSubtitlePlaceholders []LocalizedText `json:"localizedSubtitlePlaceholders,omitempty"`
}

// BoardConfig configures the community forum of a space.
type BoardConfig struct {
	IsEnabled  bool   `json:"isEnabled"`
	AccessType string `json:"accessType"`
}

// Board access types.
const (
	BoardPublic  = "PUBLIC"
	BoardPreview = "PREVIEW"
	BoardPrivate = "PRIVATE"
)

// Messaging options.
const (
	MessagingDisabled           = "DISABLED"
	MessagingEnabledWithAuth    = "ENABLED_WITH_AUTH"
	MessagingEnabledWithoutAuth = "ENABLED_WITHOUT_AUTH"
)

// Space is the hosted profile-card collection entity. The bot reads it,
// edits a handful of fields through modal forms and writes it back wholesale.
type Space struct {
	ID                              string               `json:"id,omitempty"`
	Handle                          string               `json:"handle"`
	Title                           string               `json:"title"`
	Description                     string               `json:"description,omitempty"`
	ContactPoints                   []ContactPoint       `json:"contactPoints"`
	ImageConfig                     *ImageConfig         `json:"imageConfig,omitempty"`
	DefaultLanguage                 string               `json:"defaultLanguage"`
	ProfileCategoryConfig           *CategoryConfig      `json:"profileCategoryConfig,omitempty"`
	ProfileCreateConfig             *ProfileCreateConfig `json:"profileCreateConfig,omitempty"`
	ProfileSubtitleType             string               `json:"profileSubtitleType,omitempty"`
	BoardConfig                     *BoardConfig         `json:"boardConfig,omitempty"`
	IsAccessLimitedToOnlyCardOwners bool                 `json:"isAccessLimitedToOnlyCardOwners"`
	IsFullyPrivate                  bool                 `json:"isFullyPrivate"`
	DefaultProfileVisible           bool                 `json:"defaultProfileVisible"`
	EnterCode                       string               `json:"enterCode,omitempty"`
	IsNeedMessaging                 bool                 `json:"isNeedMessaging"`
	MessagingOption                 string               `json:"messagingOption,omitempty"`
	HostID                          string               `json:"hostId,omitempty"`
	Hosts                           []Host               `json:"hosts,omitempty"`
	TodayViews                      int                  `json:"todayViews,omitempty"`
}

// UpdateParams returns a copy of the space suitable for the update endpoint:
// server-owned fields are cleared so they are not echoed back.
func (s Space) UpdateParams() Space {
	s.ID = ""
	s.HostID = ""
	s.Hosts = nil
	s.TodayViews = 0
	return s
}

// Host access types.
const (
	AccessAdmin  = "ADMIN"
	AccessViewer = "VIEWER"
)

// Host is an (email, access type) pair. A space's host set is replaced
// wholesale on update.
type Host struct {
	Email      string `json:"email"`
	AccessType string `json:"accessType"`
}

// EngagingProfile is one guest profile inside an engagement notification.
type EngagingProfile struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	Introduce string `json:"introduce"`
}

// EngagingEvent describes a pending engagement notification: the popular
// profile to highlight and the guests it would be sent to.
type EngagingEvent struct {
	Type           string            `json:"type"`
	SpaceTitle     string            `json:"spaceTitle"`
	SpaceHandle    string            `json:"spaceHandle"`
	SpaceLocale    string            `json:"spaceLocale"`
	Profiles       []EngagingProfile `json:"profiles"`
	PopularProfile EngagingProfile   `json:"popularProfile"`
}

// Timezone identifies a user's timezone in sign-up requests.
type Timezone struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Offset   string `json:"offset"`
}

// ProfileLink is a social link rendered on a profile card.
type ProfileLink struct {
	URL    string `json:"url"`
	Label  string `json:"label"`
	IconID string `json:"iconId"`
	Size   int    `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
}

// SignUpInfo is the account half of a combined sign-up-and-create request.
type SignUpInfo struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone,omitempty"`
	Timezone Timezone `json:"timezone"`
	Locale   string   `json:"locale"`
}

// CreateProfileInfo is the profile half of a combined sign-up-and-create
// request.
type CreateProfileInfo struct {
	SpaceID     string        `json:"spaceId"`
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle,omitempty"`
	Tags        []string      `json:"tags"`
	CategoryIDs []string      `json:"categoryIds"`
	Description string        `json:"description,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Links       []ProfileLink `json:"links,omitempty"`
}

// SignUpAndCreateProfileRequest creates an account and a space profile in
// one call. Used by the bulk card-creation flow.
type SignUpAndCreateProfileRequest struct {
	SignUpInfo       SignUpInfo        `json:"signUpInfo"`
	SpaceProfileInfo CreateProfileInfo `json:"spaceProfileInfo"`
}

// SeoulTimezone is the fixed timezone assigned to bulk-created accounts.
var SeoulTimezone = Timezone{
	ID:       "64158cebd3603238234d6c63",
	Name:     "(GMT+09:00) Seoul",
	Timezone: "Asia/Seoul",
	Offset:   "+9",
}
