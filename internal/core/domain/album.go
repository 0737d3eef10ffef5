package domain

import "time"

// DefaultPhotoDescription is the fixed caption shown under every scanned photo.
const DefaultPhotoDescription = "Foto astronomi dari koleksi pribadi"

// Photo is one image file found in the album directory. It has no identity
// beyond its filename; ID is the position in the current scan.
type Photo struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
	Src      string `json:"src"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
}

// LinkedPhoto is an externally hosted photo added to the album by an admin.
type LinkedPhoto struct {
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}
