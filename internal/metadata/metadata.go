// Package metadata validates submission URLs and derives what descriptive
// metadata can be read from the URL alone. It never calls out to the
// streaming services; titles and artists either arrive with the submission
// or stay empty.
package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"ripweb/internal/domain"
)

// supportedServices are the hosts a submission URL may point at.
var supportedServices = []string{
	"spotify.com",
	"deezer.com",
	"tidal.com",
	"qobuz.com",
	"soundcloud.com",
	"youtube.com",
}

var (
	alnumItemRe = regexp.MustCompile(`/(album|track|playlist|artist)/([a-zA-Z0-9]+)`)
	numItemRe   = regexp.MustCompile(`/(album|track|playlist|artist)/([0-9]+)`)
)

// Supported reports whether the URL points at a service rip can handle.
func Supported(url string) bool {
	lower := strings.ToLower(url)
	for _, service := range supportedServices {
		if strings.Contains(lower, service) {
			return true
		}
	}
	return false
}

// FromURL extracts service, media type and item id from a catalog URL.
// Spotify ids are alphanumeric; the other services use numeric ids. Tidal
// album art follows a predictable URL template, so it can be filled in
// without asking the service.
func FromURL(url string) domain.Metadata {
	var meta domain.Metadata
	lower := strings.ToLower(url)

	switch {
	case strings.Contains(lower, "spotify.com"):
		meta.Service = "spotify"
		fillItem(&meta, alnumItemRe, url)

	case strings.Contains(lower, "qobuz.com"):
		meta.Service = "qobuz"
		fillItem(&meta, numItemRe, url)

	case strings.Contains(lower, "tidal.com"):
		meta.Service = "tidal"
		fillItem(&meta, numItemRe, url)
		if meta.ItemID != "" {
			meta.AlbumArt = fmt.Sprintf("https://resources.tidal.com/images/%s/320x320.jpg", meta.ItemID)
		}

	case strings.Contains(lower, "deezer.com"):
		meta.Service = "deezer"
		fillItem(&meta, numItemRe, url)

	case strings.Contains(lower, "soundcloud.com"):
		meta.Service = "soundcloud"

	case strings.Contains(lower, "youtube.com"):
		meta.Service = "youtube"
	}

	return meta
}

func fillItem(meta *domain.Metadata, re *regexp.Regexp, url string) {
	if m := re.FindStringSubmatch(url); m != nil {
		meta.Type = m[1]
		meta.ItemID = m[2]
	}
}
