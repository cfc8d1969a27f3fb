package entities

// Identity is the caller context issued by the external identity
// provider. A nil *Identity means the caller is anonymous.
type Identity struct {
	Subject    string `json:"subject"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}
