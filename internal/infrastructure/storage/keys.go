// Package storage maps the site's fixed storage keys onto a key/value backend
// and owns their JSON encoding.
package storage

const (
	KeyUsers       = "dkv3_users"
	KeyCurrentUser = "dkv3_current_user"
	KeyLoggedIn    = "dkv3_loggedIn"
	KeyRememberMe  = "dkv3_rememberMe"
	KeyAlbumPhotos = "dkv3_album_photos"
	KeyRedirect    = "redirectAfterLogin"
)

// SiteKey namespaces a key shared by every client.
func SiteKey(key string) string {
	return "site:" + key
}

// ClientKey namespaces a key owned by one client.
func ClientKey(clientID, key string) string {
	return "client:" + clientID + ":" + key
}
