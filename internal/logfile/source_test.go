package logfile

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	writeFile(t, path, "one\ntwo\nthree\n")

	got, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadLines() = %v, want %v", got, want)
	}
}

func TestReadLinesUnreadableIsError(t *testing.T) {
	if _, err := ReadLines(filepath.Join(t.TempDir(), "missing.log")); err == nil {
		t.Error("expected an error for a missing log file")
	}
}

func TestReadLinesEmptyIsNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access.log")
	writeFile(t, path, "")

	got, err := ReadLines(path)
	if err != nil {
		t.Fatalf("empty file must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
}

func TestReadArchivesConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of order on purpose; enumeration is sorted.
	writeGzip(t, filepath.Join(dir, "access.log.2.gz"), "c\nd\n")
	writeGzip(t, filepath.Join(dir, "access.log.1.gz"), "a\nb\n")

	got, err := ReadArchives(filepath.Join(dir, "access.log.*.gz"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadArchives() = %v, want %v", got, want)
	}
}

func TestReadArchivesPlainFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "access.log.0"), "plain\n")

	got, err := ReadArchives(filepath.Join(dir, "access.log.*"))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"plain"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReadArchives() = %v, want %v", got, want)
	}
}

func TestReadArchivesNoMatchesIsEmpty(t *testing.T) {
	got, err := ReadArchives(filepath.Join(t.TempDir(), "*.gz"))
	if err != nil {
		t.Fatalf("no matches must not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no lines, got %v", got)
	}
}

func TestReadArchivesCorruptGzipIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "access.log.1.gz"), "not gzip data")

	if _, err := ReadArchives(filepath.Join(dir, "*.gz")); err == nil {
		t.Error("expected an error for corrupt gzip")
	}
}
