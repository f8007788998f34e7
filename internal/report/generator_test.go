package report

import (
	"strings"
	"testing"
	"time"

	"github.com/skyvault-labs/s5vector/internal/store"
)

func TestGenerate(t *testing.T) {
	info := store.DatabaseInfo{
		Name:        "docs",
		Dimensions:  768,
		VectorCount: 42,
		StorageSize: 12345,
		Owner:       "alice",
		Description: "Holds **project** documentation embeddings.",
		CreatedAt:   store.Timestamp{Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	folders := []store.FolderInfo{
		{Path: "guides", VectorCount: 20},
		{Path: "guides/deep", VectorCount: 22},
	}

	page, err := Generate(info, folders)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	html := string(page)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"docs",
		"768",
		"<strong>project</strong>",
		"guides/deep",
		"alice",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGenerateWithoutFolders(t *testing.T) {
	page, err := Generate(store.DatabaseInfo{Name: "empty", Dimensions: 3}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(page), "Folders") {
		t.Error("folder section rendered for a database without folders")
	}
}
