// Package model defines the core domain models used throughout the application.
package model

// Article is one catalog row: a sellable article code and the canonical
// description it was exported with. A code is not guaranteed unique; the
// catalog may carry several description variants for the same code.
type Article struct {
	Code                  string
	Description           string
	NormalizedDescription string
	ArticleID             string
	Image                 []byte
}
