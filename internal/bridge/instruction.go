package bridge

// ToWorker is an instruction sent from the UI side to the worker.
type ToWorker interface {
	toWorker()
	Kind() string
}

// Quit stops the worker loop.
type Quit struct{}

// PageChange reports navigation observed on the UI. Unset fields did not change.
type PageChange struct {
	App  AppPage
	Main MainPage
}

// RequestRecompute asks the backend to recompute the current feed.
type RequestRecompute struct{}

func (Quit) toWorker()             {}
func (PageChange) toWorker()       {}
func (RequestRecompute) toWorker() {}

func (Quit) Kind() string             { return "quit" }
func (PageChange) Kind() string       { return "page-change" }
func (RequestRecompute) Kind() string { return "request-recompute" }

// Empty reports whether neither field is set.
func (c PageChange) Empty() bool {
	return c.App == AppPageUnset && c.Main == MainPageUnset
}

// ToUi is an instruction sent from the worker to the UI.
type ToUi interface {
	toUI()
}

// RequestPage navigates the UI. Unset fields are left alone.
type RequestPage struct {
	App  AppPage
	Main MainPage
}

func (RequestPage) toUI() {}
