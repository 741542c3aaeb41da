package output

import (
	"bufio"
	"io"
	"os"

	"github.com/apimgr/hostscout/src/model"
)

// Sink writes a run's records to stdout and, when a save path is set,
// to a file in the chosen format.
type Sink struct {
	Stdout io.Writer
	Text   TextRenderer
	Format Format

	path string
	file *os.File
}

// Open creates or truncates the save file. Call it before any remote work
// so an unwritable path fails the run early.
func Open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &model.OutputError{Path: path, Err: err}
	}
	return f, nil
}

// NewSink returns a sink writing text to stdout and, if savePath is not
// empty, format to savePath.
func NewSink(stdout io.Writer, format Format, color bool, savePath string) (*Sink, error) {
	s := &Sink{
		Stdout: stdout,
		Text:   TextRenderer{Color: color},
		Format: format,
		path:   savePath,
	}
	if savePath != "" {
		f, err := Open(savePath)
		if err != nil {
			return nil, err
		}
		s.file = f
	}
	return s, nil
}

// Path returns the save file path, empty when not saving
func (s *Sink) Path() string {
	return s.path
}

// Emit renders the records in order
func (s *Sink) Emit(records []model.EnrichedRecord) error {
	if s.Stdout != nil {
		if err := s.Text.RenderAll(s.Stdout, records); err != nil {
			return &model.OutputError{Path: "stdout", Err: err}
		}
	}

	if s.file == nil {
		return nil
	}

	w := bufio.NewWriter(s.file)
	var err error
	switch s.Format {
	case FormatJSON:
		err = WriteJSONLines(w, records)
	case FormatCSV:
		err = WriteCSV(w, records)
	default:
		err = TextRenderer{}.RenderAll(w, records)
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		return &model.OutputError{Path: s.path, Err: err}
	}
	return nil
}

// Close closes the save file
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return &model.OutputError{Path: s.path, Err: err}
	}
	return nil
}
