package util

import gonanoid "github.com/matoous/go-nanoid/v2"

const idCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewID generates a document ID for any collection
func NewID() string {
	id, err := gonanoid.Generate(idCharset, 20)
	if err != nil {
		// Only reachable if the system RNG is broken
		panic(err)
	}
	return id
}
