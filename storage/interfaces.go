package storage

import "olx-browser/models"

// ListingWriter is the interface any listing export backend must satisfy.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}

// RankWriter persists or renders the outcome of one ranking run.
type RankWriter interface {
	WriteRankRun(run *models.RankRun) error
	Close() error
}
