package odesli

import "fmt"

// Response is the payload returned by the /links endpoint.
type Response struct {
	EntityUniqueID     string                  `json:"entityUniqueId"`
	UserCountry        string                  `json:"userCountry"`
	PageURL            string                  `json:"pageUrl"`
	EntitiesByUniqueID map[string]Entity       `json:"entitiesByUniqueId"`
	LinksByPlatform    map[string]PlatformLink `json:"linksByPlatform"`
}

// Entity is a song or album as one provider knows it.
type Entity struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	ArtistName      string   `json:"artistName"`
	ThumbnailURL    string   `json:"thumbnailUrl"`
	ThumbnailWidth  int      `json:"thumbnailWidth"`
	ThumbnailHeight int      `json:"thumbnailHeight"`
	APIProvider     string   `json:"apiProvider"`
	Platforms       []string `json:"platforms"`
}

// PlatformLink points at the entity on a single platform.
type PlatformLink struct {
	URL                 string `json:"url"`
	EntityUniqueID      string `json:"entityUniqueId"`
	NativeAppURIMobile  string `json:"nativeAppUriMobile,omitempty"`
	NativeAppURIDesktop string `json:"nativeAppUriDesktop,omitempty"`
}

// Link returns the link for platform and the entity it points at. The entity
// is nil when the response does not carry it.
func (r *Response) Link(platform string) (PlatformLink, *Entity, bool) {
	link, ok := r.LinksByPlatform[platform]
	if !ok {
		return PlatformLink{}, nil, false
	}
	entity, ok := r.EntitiesByUniqueID[link.EntityUniqueID]
	if !ok {
		return link, nil, true
	}
	return link, &entity, true
}

// StatusError is returned when Odesli answers with a non-2xx status. Body is
// the raw response body, unmodified.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("odesli returned status %d: %s", e.StatusCode, e.Body)
}
