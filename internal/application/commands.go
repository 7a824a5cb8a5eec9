package application

// DistillCommand describes one share page to turn into a transcript.
type DistillCommand struct {
	URL string
	// HTML, when set, is used instead of fetching URL.
	HTML string
	// Tail keeps the last Tail messages. Negative keeps everything.
	Tail int
}

type BuildArchiveCommand struct {
	Messages []byte
}

type MergeArchivesCommand struct {
	First  []byte
	Second []byte
}
