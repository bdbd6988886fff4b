package services

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mariaeduaruda/book-recommender/models"
)

// LoadTaggedDescriptions reads the tagged descriptions file from path.
func LoadTaggedDescriptions(path string) ([]models.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptions: %w", err)
	}
	defer f.Close()

	descriptions, err := SplitTaggedDescriptions(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load descriptions %s: %w", path, err)
	}

	log.Printf("Loaded %d tagged descriptions from %s", len(descriptions), path)
	return descriptions, nil
}

// SplitTaggedDescriptions splits the input strictly on line breaks: each
// non-empty line is its own record, with the leading token parsed as the
// ISBN13. The stored text keeps the full line so indexed content mirrors
// the source file.
func SplitTaggedDescriptions(r io.Reader) ([]models.Description, error) {
	var descriptions []models.Description

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		isbn, err := leadingISBN(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		descriptions = append(descriptions, models.Description{
			ISBN13: isbn,
			Text:   line,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptions: %w", err)
	}

	return descriptions, nil
}

// leadingISBN parses the first whitespace-separated token of a tagged line,
// stripping any quote wrapping around the line first.
func leadingISBN(line string) (int64, error) {
	fields := strings.Fields(strings.Trim(line, `"`))
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty description line")
	}
	token := strings.Trim(fields[0], `"`)

	isbn, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid leading isbn %q: %w", token, err)
	}
	return isbn, nil
}
