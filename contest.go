package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errContestNotFound = errors.New("contest not found")

// contestFile is the on-disk format: one JSON file per contest under the
// contests directory, named <id>.json.
type contestFile struct {
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Questions   []*Question `json:"questions"`
}

// ContestInfo is one catalog entry, served to the host panel.
type ContestInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	QuestionCount int    `json:"questionCount"`
}

// contestDir loads contest question files from a local directory.
type contestDir struct {
	dir string
}

func newContestDir(dir string) *contestDir {
	return &contestDir{dir: dir}
}

// load returns the ordered question list for a contest id, or fails with
// errContestNotFound or a parse error. The id must be a bare file name.
func (c *contestDir) load(id string) ([]*Question, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return nil, errContestNotFound
	}

	data, err := os.ReadFile(filepath.Join(c.dir, id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errContestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading contest %q: %w", id, err)
	}

	var contest contestFile
	if err := json.Unmarshal(data, &contest); err != nil {
		return nil, fmt.Errorf("parsing contest %q: %w", id, err)
	}
	if len(contest.Questions) == 0 {
		return nil, fmt.Errorf("contest %q contains no questions", id)
	}

	return contest.Questions, nil
}

// list scans the contests directory and returns a catalog entry per readable
// contest file. Unparseable files are skipped rather than failing the whole
// listing.
func (c *contestDir) list() ([]ContestInfo, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("listing contests: %w", err)
	}

	contests := []ContestInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			continue
		}

		var contest contestFile
		if err := json.Unmarshal(data, &contest); err != nil {
			continue
		}

		name := contest.Name
		if name == "" {
			name = id
		}

		contests = append(contests, ContestInfo{
			ID:            id,
			Name:          name,
			Description:   contest.Description,
			QuestionCount: len(contest.Questions),
		})
	}

	return contests, nil
}
