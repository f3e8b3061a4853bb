package service

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/team-splab/splab-slack-bot/internal/umoh"
)

// Spreadsheet column layout. Header row is row 1, so the first data row is
// numbered 2 in error messages.
const (
	colName = iota
	colEmail
	colPhone
	colCategoryIDs
	colSubtitle
	colDescription
	colTags
	colImageURL
	colSocialFirst
)

// cardSocialColumns maps the trailing spreadsheet columns to socials, in
// column order starting at colSocialFirst.
var cardSocialColumns = []umoh.Social{
	umoh.SocialWebsite,
	umoh.SocialLinkedIn,
	umoh.SocialInstagram,
	umoh.SocialFacebook,
	umoh.SocialTwitter,
	umoh.SocialGitHub,
	umoh.SocialNaverBlog,
	umoh.CompanyVideo(1),
	umoh.CompanyFile(1),
}

// cardsFromRows maps every spreadsheet data row to a sign-up request. The
// whole batch fails on the first bad row so partial imports never start.
func cardsFromRows(rows [][]string, spaceID string) ([]umoh.SignUpAndCreateProfileRequest, error) {
	cards := make([]umoh.SignUpAndCreateProfileRequest, 0, len(rows))
	for i, row := range rows {
		card, err := cardFromRow(row, i+2, spaceID)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func cardFromRow(row []string, rowNumber int, spaceID string) (umoh.SignUpAndCreateProfileRequest, error) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := cell(colName)
	if name == "" {
		return umoh.SignUpAndCreateProfileRequest{}, fmt.Errorf("Name is not provided at row %d", rowNumber)
	}
	email := cell(colEmail)
	if email == "" {
		return umoh.SignUpAndCreateProfileRequest{}, fmt.Errorf("Email is not provided at row %d", rowNumber)
	}

	phone, err := normalizePhone(cell(colPhone))
	if err != nil {
		return umoh.SignUpAndCreateProfileRequest{}, fmt.Errorf("Invalid phone number at row %d", rowNumber)
	}

	categoryIDs := splitTrimmed(cell(colCategoryIDs), func(r rune) bool { return r == ',' })
	tags := splitTrimmed(cell(colTags), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ',' || r == '#'
	})

	var links []umoh.ProfileLink
	for i, social := range cardSocialColumns {
		if url := cell(colSocialFirst + i); url != "" {
			links = append(links, umoh.SocialProfileLink(social, url))
		}
	}

	return umoh.SignUpAndCreateProfileRequest{
		SignUpInfo: umoh.SignUpInfo{
			Email:    email,
			Name:     name,
			Phone:    phone,
			Timezone: umoh.SeoulTimezone,
			Locale:   "ko",
		},
		SpaceProfileInfo: umoh.CreateProfileInfo{
			SpaceID:     spaceID,
			Title:       name,
			Subtitle:    cell(colSubtitle),
			Tags:        tags,
			CategoryIDs: categoryIDs,
			Description: cell(colDescription),
			ImageURL:    cell(colImageURL),
			Links:       links,
		},
	}, nil
}

// normalizePhone parses a Korean phone number and renders it in the
// international format with the country code stripped.
func normalizePhone(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	number, err := phonenumbers.Parse(input, "KR")
	if err != nil {
		return "", err
	}
	international := phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
	parts := strings.Fields(international)
	if len(parts) < 2 {
		return international, nil
	}
	return strings.Join(parts[1:], ""), nil
}

func splitTrimmed(input string, sep func(rune) bool) []string {
	parts := strings.FieldsFunc(input, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p := strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
