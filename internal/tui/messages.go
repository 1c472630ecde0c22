package tui

import (
	"github.com/jhellingsdata/search-app/internal/cache"
	"github.com/jhellingsdata/search-app/internal/search"
)

type corpusLoadedMsg struct {
	articles []cache.Article
}

type searchDoneMsg struct {
	seq  int
	resp search.Response
	err  error
}

type errMsg struct {
	err error
}

type refreshDoneMsg struct {
	count int
	errs  []error
}

type snapshotChangedMsg struct{}

type snapshotImportedMsg struct {
	imported int
	err      error
}

// dayTickMsg prompts the chart to re-derive its domain in case today moved.
type dayTickMsg struct{}
