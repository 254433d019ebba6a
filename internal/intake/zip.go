package intake

import (
	"archive/zip"
	"context"
	"fmt"
	"path"
	"strings"
)

const (
	maxZipEntries       = 50000
	maxCompressionRatio = 100
)

// readZip scans an archive in memory. Unsafe entry names fail the whole
// archive; oversized or suspicious entries are skipped with a warning.
func (c *collector) readZip(ctx context.Context, zipPath string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() { _ = r.Close() }()

	if len(r.File) > maxZipEntries {
		return fmt.Errorf("zip entry count exceeds limit: %d > %d", len(r.File), maxZipEntries)
	}

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, err := cleanZipEntryName(f.Name)
		if err != nil {
			return err
		}
		if name == "" || f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if !f.Mode().IsRegular() {
			c.skip("non_regular")
			continue
		}
		if reason, skip := skipFile(path.Base(name), name); skip {
			c.skip(reason)
			continue
		}
		if c.ignore.ShouldIgnore(name, false) {
			c.skip("ignore_file")
			continue
		}
		if reason, skip := c.filtered(name); skip {
			c.skip(reason)
			continue
		}

		size := f.UncompressedSize64
		if size > uint64(c.opts.MaxFileBytes) {
			c.warn("skipped %s: file exceeds max size (%d > %d bytes)", name, size, c.opts.MaxFileBytes)
			c.skip("too_large")
			continue
		}
		if f.CompressedSize64 > 0 && size/f.CompressedSize64 > maxCompressionRatio {
			c.warn("skipped %s: suspicious compression ratio %d:1", name, size/f.CompressedSize64)
			c.skip("compression_ratio")
			continue
		}

		rc, err := f.Open()
		if err != nil {
			c.warn("skipped %s: %v", name, err)
			c.skip("unreadable")
			continue
		}
		c.add(name, rc)
		_ = rc.Close()
	}
	return nil
}

func cleanZipEntryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("zip contains absolute path: %s", name)
	}
	name = strings.TrimPrefix(name, "./")
	clean := path.Clean(name)
	if clean == "." || clean == "" {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("zip contains unsafe relative path: %s", name)
	}
	if len(clean) >= 2 && clean[1] == ':' {
		return "", fmt.Errorf("zip contains absolute path: %s", name)
	}
	return clean, nil
}
