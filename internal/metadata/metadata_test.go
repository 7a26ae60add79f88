package metadata

import "testing"

func TestSupported(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.deezer.com/album/123", true},
		{"https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy", true},
		{"https://tidal.com/browse/track/98765", true},
		{"https://open.qobuz.com/album/1234567", true},
		{"https://soundcloud.com/artist/track", true},
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://WWW.DEEZER.COM/ALBUM/123", true},
		{"https://example.com/album/123", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Supported(tt.url); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestFromURLDeezer(t *testing.T) {
	meta := FromURL("https://www.deezer.com/album/302127")

	if meta.Service != "deezer" {
		t.Errorf("Expected service deezer, got %q", meta.Service)
	}
	if meta.Type != "album" || meta.ItemID != "302127" {
		t.Errorf("Expected album/302127, got %s/%s", meta.Type, meta.ItemID)
	}
}

func TestFromURLSpotifyAlphanumericID(t *testing.T) {
	meta := FromURL("https://open.spotify.com/track/4aawyAB9vmqN3uQ7FjRGTy")

	if meta.Service != "spotify" {
		t.Errorf("Expected service spotify, got %q", meta.Service)
	}
	if meta.Type != "track" || meta.ItemID != "4aawyAB9vmqN3uQ7FjRGTy" {
		t.Errorf("Expected track/4aawyAB9vmqN3uQ7FjRGTy, got %s/%s", meta.Type, meta.ItemID)
	}
}

func TestFromURLTidalFillsAlbumArt(t *testing.T) {
	meta := FromURL("https://tidal.com/browse/album/56062537")

	if meta.Service != "tidal" {
		t.Errorf("Expected service tidal, got %q", meta.Service)
	}
	want := "https://resources.tidal.com/images/56062537/320x320.jpg"
	if meta.AlbumArt != want {
		t.Errorf("Expected album art %q, got %q", want, meta.AlbumArt)
	}
}

func TestFromURLSoundcloudHasNoItemID(t *testing.T) {
	meta := FromURL("https://soundcloud.com/someone/some-track")

	if meta.Service != "soundcloud" {
		t.Errorf("Expected service soundcloud, got %q", meta.Service)
	}
	if meta.ItemID != "" || meta.Type != "" {
		t.Errorf("Expected no item details, got %s/%s", meta.Type, meta.ItemID)
	}
}

func TestFromURLUnknownService(t *testing.T) {
	meta := FromURL("https://example.com/album/1")
	if meta.Service != "" {
		t.Errorf("Expected empty metadata for unknown service, got %+v", meta)
	}
}
