package domain

// SingleTrack is a standalone recording's recordable.
type SingleTrack struct {
	ID     string
	ShopID string
}

// Album groups ordered album tracks. Track order lives on AlbumTrack.
type Album struct {
	ID     string
	ShopID string
	Title  string
}

// AlbumTrack is one positioned track of an album. Position is unique per
// (shop, album).
type AlbumTrack struct {
	ID       string
	ShopID   string
	AlbumID  string
	Position int
}
