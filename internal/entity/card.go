package entity

// Image is the picture shown on the face of a card. Two cards form a pair when they share an image UUID.
type Image struct {
	URL         string `json:"url"`
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	ContentType string `json:"content_type,omitempty"`
}

type Card struct {
	ID        string `json:"id"`
	Image     Image  `json:"image"`
	Flipped   bool   `json:"flipped"`
	IsMatched bool   `json:"isMatched"`
}

// FaceUp reports whether the card should be rendered showing its image.
func (that *Card) FaceUp() bool {
	return that.Flipped || that.IsMatched
}

func (that *Card) Matches(other *Card) bool {
	return that.Image.UUID == other.Image.UUID
}

func (that *Card) turnDown() {
	that.Flipped = false
	that.IsMatched = false
}
