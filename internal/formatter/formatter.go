// package formatter renders meals and favorites as plain text, Markdown, JSON and CSV, and writes export files
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// Supported card formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists the card formats accepted by [WriteMealCard].
var Formats = []string{FormatJSON, FormatMarkdown, FormatText}

// ValidFormat reports whether f names a supported card format.
func ValidFormat(f string) bool {
	switch f {
	case FormatJSON, FormatMarkdown, FormatText:
		return true
	default:
		return false
	}
}

// ingredientLines pairs each ingredient with its measure, if any.
func ingredientLines(meal *models.MealDetail) []string {
	lines := make([]string, len(meal.Ingredients))
	for i, ingredient := range meal.Ingredients {
		if i < len(meal.Measures) && meal.Measures[i] != "" {
			lines[i] = fmt.Sprintf("%s (%s)", ingredient, meal.Measures[i])
		} else {
			lines[i] = ingredient
		}
	}
	return lines
}

// MealToText renders a meal as a plain text card.
func MealToText(meal *models.MealDetail) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", meal.Name)
	fmt.Fprintf(&buf, "%s\n", strings.Repeat("=", len([]rune(meal.Name))))
	fmt.Fprintf(&buf, "Category: %s\n", meal.Category)
	fmt.Fprintf(&buf, "Area: %s\n", meal.Area)
	if len(meal.Tags) > 0 {
		fmt.Fprintf(&buf, "Tags: %s\n", strings.Join(meal.Tags, ", "))
	}
	if meal.Source != "" {
		fmt.Fprintf(&buf, "Source: %s\n", meal.Source)
	}
	if meal.Video != "" {
		fmt.Fprintf(&buf, "Video: %s\n", meal.Video)
	}

	fmt.Fprintf(&buf, "\nIngredients (%d):\n", len(meal.Ingredients))
	for _, line := range ingredientLines(meal) {
		fmt.Fprintf(&buf, "  - %s\n", line)
	}

	if meal.Instructions != "" {
		fmt.Fprintf(&buf, "\nInstructions:\n%s\n", strings.TrimSpace(meal.Instructions))
	}

	return buf.Bytes()
}

// MealToMarkdown renders a meal as Markdown with an optional local image reference.
func MealToMarkdown(meal *models.MealDetail, imageFilename string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", meal.Name)

	if imageFilename != "" {
		fmt.Fprintf(&buf, "![%s](%s)\n\n", meal.Name, imageFilename)
	} else if meal.Image != "" {
		fmt.Fprintf(&buf, "![%s](%s)\n\n", meal.Name, meal.Image)
	}

	fmt.Fprintf(&buf, "**Category**: %s\n", meal.Category)
	fmt.Fprintf(&buf, "**Area**: %s\n", meal.Area)
	if len(meal.Tags) > 0 {
		fmt.Fprintf(&buf, "**Tags**: %s\n", strings.Join(meal.Tags, ", "))
	}
	buf.WriteString("\n")

	var links []string
	if meal.Source != "" {
		links = append(links, fmt.Sprintf("[Source](%s)", meal.Source))
	}
	if meal.Video != "" {
		links = append(links, fmt.Sprintf("[Video](%s)", meal.Video))
	}
	if len(links) > 0 {
		fmt.Fprintf(&buf, "%s\n\n", strings.Join(links, " · "))
	}

	buf.WriteString("## Ingredients\n\n")
	for _, line := range ingredientLines(meal) {
		fmt.Fprintf(&buf, "- %s\n", line)
	}

	if meal.Instructions != "" {
		fmt.Fprintf(&buf, "\n## Instructions\n\n%s\n", strings.TrimSpace(meal.Instructions))
	}

	return buf.Bytes()
}

// MealToJSON renders a meal as indented JSON.
func MealToJSON(meal *models.MealDetail) ([]byte, error) {
	return shared.MarshalJSON(meal, true)
}

// FavoritesToCSV converts favorites to CSV with columns meal_id, meal_name, image_url.
func FavoritesToCSV(favorites []models.FavoriteEntry) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"meal_id", "meal_name", "image_url"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range favorites {
		if err := writer.Write([]string{f.MealID, f.MealName, f.ImageURL}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SummariesToText renders search results one per line as "id  name".
func SummariesToText(meals []models.MealSummary) []byte {
	var buf bytes.Buffer
	for _, m := range meals {
		fmt.Fprintf(&buf, "%-8s %s\n", m.ID, m.Name)
	}
	return buf.Bytes()
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CardOptions controls how [WriteMealCard] lays out files.
type CardOptions struct {
	Format    string
	OutputDir string
	// Images downloads the thumbnail next to Markdown cards.
	Images     bool
	HTTPClient *http.Client
}

// WriteMealCard writes one recipe card and returns the files created.
//
//   - json : {dir}/{id}.json
//   - txt : {dir}/{id}.txt
//   - markdown : {dir}/{id}/README.md, plus {dir}/{id}/thumbnail.jpg when Images is set
func WriteMealCard(ctx context.Context, meal *models.MealDetail, opts CardOptions) ([]string, error) {
	if meal.ID == "" {
		return nil, fmt.Errorf("%w: meal has no id", shared.ErrInvalidInput)
	}

	switch opts.Format {
	case FormatMarkdown:
		dir := filepath.Join(opts.OutputDir, meal.ID)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}

		var files []string
		var imageFilename string
		if opts.Images && meal.Image != "" {
			data, err := DownloadImage(ctx, opts.HTTPClient, meal.Image)
			if err == nil {
				imagePath := filepath.Join(dir, "thumbnail.jpg")
				if err := os.WriteFile(imagePath, data, 0644); err == nil {
					imageFilename = "thumbnail.jpg"
					files = append(files, imagePath)
				}
			}
		}

		mdPath := filepath.Join(dir, "README.md")
		if err := os.WriteFile(mdPath, MealToMarkdown(meal, imageFilename), 0644); err != nil {
			return nil, fmt.Errorf("failed to write Markdown file: %w", err)
		}
		return append(files, mdPath), nil

	case FormatText:
		txtPath := filepath.Join(opts.OutputDir, meal.ID+".txt")
		if err := os.WriteFile(txtPath, MealToText(meal), 0644); err != nil {
			return nil, fmt.Errorf("failed to write text file: %w", err)
		}
		return []string{txtPath}, nil

	case FormatJSON, "":
		data, err := MealToJSON(meal)
		if err != nil {
			return nil, fmt.Errorf("JSON marshal failed: %w", err)
		}
		jsonPath := filepath.Join(opts.OutputDir, meal.ID+".json")
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write JSON file: %w", err)
		}
		return []string{jsonPath}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, opts.Format)
	}
}

// WriteFavoritesCSV writes favorites to path.
func WriteFavoritesCSV(favorites []models.FavoriteEntry, path string) error {
	data, err := FavoritesToCSV(favorites)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// ExportManifest summarizes a favorites export.
type ExportManifest struct {
	CreatedAt    time.Time       `json:"created_at"`
	Format       string          `json:"format"`
	Total        int             `json:"total"`
	Succeeded    int             `json:"succeeded"`
	Failed       int             `json:"failed"`
	FavoritesCSV string          `json:"favorites_csv,omitempty"`
	Entries      []ManifestEntry `json:"entries"`
}

// ManifestEntry records the outcome for one favorite.
type ManifestEntry struct {
	MealID   string   `json:"meal_id"`
	MealName string   `json:"meal_name"`
	Files    []string `json:"files,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// WriteExportManifest writes the manifest as indented JSON.
func WriteExportManifest(manifest *ExportManifest, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
