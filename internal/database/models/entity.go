package models

// Entity lists the kinds persisted through the generic repository.
type Entity interface {
	User | Post | Like
}
