package jobs

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dhamidi/javalyzer/config"
)

// collectArchive reads every source entry of a zip or jar file, descending
// one level into nested jars. Entries are named "archive!entry".
func collectArchive(path string, cfg config.AnalysisConfig) ([]unit, []string) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, []string{fmt.Sprintf("open archive %s: %v", path, err)}
	}
	defer r.Close()

	var units []unit
	var errs []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case cfg.HasExtension(f.Name):
			u, err := readEntry(f, path)
			if err != nil {
				errs = append(errs, err.Error())
				continue
			}
			units = append(units, u)
		case filepath.Ext(f.Name) == ".jar":
			nested, nestedErrs := collectNestedJar(f, path, cfg)
			units = append(units, nested...)
			errs = append(errs, nestedErrs...)
		}
	}
	return units, errs
}

func collectNestedJar(jarFile *zip.File, archive string, cfg config.AnalysisConfig) ([]unit, []string) {
	rc, err := jarFile.Open()
	if err != nil {
		return nil, []string{fmt.Sprintf("open jar %s: %v", jarFile.Name, err)}
	}
	defer rc.Close()

	jarData, err := io.ReadAll(rc)
	if err != nil {
		return nil, []string{fmt.Sprintf("read jar %s: %v", jarFile.Name, err)}
	}

	jarReader, err := zip.NewReader(bytes.NewReader(jarData), int64(len(jarData)))
	if err != nil {
		return nil, []string{fmt.Sprintf("open jar %s as zip: %v", jarFile.Name, err)}
	}

	prefix := archive + "!" + jarFile.Name
	var units []unit
	var errs []string
	for _, f := range jarReader.File {
		if f.FileInfo().IsDir() || !cfg.HasExtension(f.Name) {
			continue
		}
		u, err := readEntry(f, prefix)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		units = append(units, u)
	}
	return units, errs
}

func readEntry(f *zip.File, prefix string) (unit, error) {
	name := prefix + "!" + f.Name
	rc, err := f.Open()
	if err != nil {
		return unit{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return unit{}, fmt.Errorf("read %s: %w", name, err)
	}
	return unit{name: name, content: data}, nil
}
