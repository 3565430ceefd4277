// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Citation is a bibliography entry of a Paper that points at another arXiv paper.
type Citation struct {
	// Title is the cited work's title.
	Title string `json:"title" yaml:"title"`

	// ArxivID is the cited work's arXiv identifier, if one was recognised.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Author is the first author's surname.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
}

// Paper holds the metadata of an ingested paper. Papers are keyed by their
// arXiv identifier and are never updated after creation.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041" or "2301.07041v2").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the paper abstract.
	Summary string `json:"summary" yaml:"summary"`

	// Published is the preprint publication date.
	Published time.Time `json:"published" yaml:"published"`

	// PDFURL is the URL of the paper PDF.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// KeyConcepts holds at most five short concept phrases.
	KeyConcepts []string `json:"key_concepts" yaml:"key_concepts"`

	// Citations holds at most ten references to other arXiv papers.
	Citations []Citation `json:"citations" yaml:"citations"`
}

// ArxivURL returns the abstract page URL for the paper.
func (p Paper) ArxivURL() string {
	return fmt.Sprintf("https://arxiv.org/abs/%s", p.ID)
}

// Year returns the publication year, or 0 when the date is unknown.
func (p Paper) Year() int {
	if p.Published.IsZero() {
		return 0
	}
	return p.Published.Year()
}

// PaperCandidate is an unconfirmed paper reference offered to the user for
// selection. Candidates are never persisted.
type PaperCandidate struct {
	ArxivID string   `json:"arxiv_id" yaml:"arxiv_id"`
	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`
	Year    int      `json:"year" yaml:"year"`

	// SourcePaperID links the candidate to the stored paper it was found from.
	SourcePaperID string `json:"source_paper_id,omitempty" yaml:"source_paper_id,omitempty"`
}
