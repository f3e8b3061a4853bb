package umoh

import "fmt"

// Social identifies a social platform slot on a profile card.
type Social string

const (
	SocialWebsite   Social = "WEBSITE"
	SocialLinkedIn  Social = "LINKEDIN"
	SocialInstagram Social = "INSTAGRAM"
	SocialFacebook  Social = "FACEBOOK"
	SocialTwitter   Social = "TWITTER"
	SocialGitHub    Social = "GITHUB"
	SocialNaverBlog Social = "NAVER_BLOG"
)

// CompanyVideo and CompanyFile slots are numbered 1..5.
func CompanyVideo(n int) Social { return Social(fmt.Sprintf("COMPANY_VIDEO#%d", n)) }
func CompanyFile(n int) Social  { return Social(fmt.Sprintf("COMPANY_FILE#%d", n)) }

type socialInfo struct {
	label  string
	iconID string
}

var socialCatalog = map[Social]socialInfo{
	SocialWebsite:   {"Website", "website"},
	SocialLinkedIn:  {"LinkedIn", "linkedin"},
	SocialInstagram: {"Instagram", "instagram"},
	SocialFacebook:  {"Facebook", "facebook"},
	SocialTwitter:   {"Twitter", "twitter"},
	SocialGitHub:    {"GitHub", "github"},
	SocialNaverBlog: {"Naver Blog", "naver_blog"},
}

func init() {
	for n := 1; n <= 5; n++ {
		socialCatalog[CompanyVideo(n)] = socialInfo{
			label:  fmt.Sprintf("Company Video %d", n),
			iconID: fmt.Sprintf("company_video_%d", n),
		}
		socialCatalog[CompanyFile(n)] = socialInfo{
			label:  fmt.Sprintf("Company File %d", n),
			iconID: fmt.Sprintf("company_file_%d", n),
		}
	}
}

// SocialOrder is the display order of the socials a space can offer.
var SocialOrder = []Social{
	SocialWebsite,
	SocialLinkedIn,
	SocialInstagram,
	SocialFacebook,
	SocialTwitter,
	SocialGitHub,
	SocialNaverBlog,
	CompanyVideo(1), CompanyVideo(2), CompanyVideo(3), CompanyVideo(4), CompanyVideo(5),
	CompanyFile(1), CompanyFile(2), CompanyFile(3), CompanyFile(4), CompanyFile(5),
}

// SocialLabel returns the display name of a social, or the raw value when
// unknown.
func SocialLabel(s Social) string {
	if info, ok := socialCatalog[s]; ok {
		return info.label
	}
	return string(s)
}

// IsKnownSocial reports whether s is in the catalogue.
func IsKnownSocial(s Social) bool {
	_, ok := socialCatalog[s]
	return ok
}

// SocialProfileLink builds the profile link for a social URL.
func SocialProfileLink(s Social, url string) ProfileLink {
	info := socialCatalog[s]
	return ProfileLink{
		URL:    url,
		Label:  info.label,
		IconID: info.iconID,
	}
}

// SocialFromIconID resolves the social behind an icon ID, for rendering
// links back into readable labels.
func SocialFromIconID(iconID string) (Social, bool) {
	for social, info := range socialCatalog {
		if info.iconID == iconID {
			return social, true
		}
	}
	return "", false
}
