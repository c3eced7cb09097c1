package models

// Collection is a named set of words; topics live inside collections.
type Collection struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	NumOfWords  int     `json:"numOfWords"`
	Topics      []Topic `json:"topics,omitempty"`
}

type Topic struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NumOfWords int    `json:"numOfWords"`
}

// PinnedItem is a collection or folder the user pinned on the home screen.
type PinnedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}
