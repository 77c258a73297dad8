package domain

import (
	"context"
	"errors"
)

// ErrCVNotFound is returned by a CVTextProducer when no document is stored.
var ErrCVNotFound = errors.New("cv not found")

// MaxCVTextBytes caps the size of a stored CV.
const MaxCVTextBytes = 2 << 20

// ExtractedFields is the parsed output of a CV extraction.
type ExtractedFields struct {
	FirstName  string
	LastName   string
	Education  string
	Experience string
	Country    string
	State      string
	City       string
	Skills     []string
}

func (f ExtractedFields) HasLocation() bool {
	return f.Country != "" || f.State != "" || f.City != ""
}

// CVTextProducer returns the plain text of the CV attached to a profile.
type CVTextProducer interface {
	GetCVText(ctx context.Context, profile *ProfileSnapshot) (string, error)
}

// ProfileExtractor turns CV text into the labelled block understood by cvparse.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, cvText string) (string, error)
}

// CVDocumentStore writes and removes the CV attached to a profile.
type CVDocumentStore interface {
	// PutCVText stores text as the profile's CV and returns its key.
	PutCVText(ctx context.Context, profile *ProfileSnapshot, text string) (string, error)
	DeleteCV(ctx context.Context, profile *ProfileSnapshot) error
}
