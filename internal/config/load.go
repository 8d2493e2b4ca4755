package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/marquee/internal/ir"
)

// Loaded is the result of loading a file or directory.
type Loaded struct {
	Doc   *Document
	Files []string // in load order
	Hash  string   // content hash of the merged document
}

// IsConfigFile reports whether path has a config document extension.
func IsConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}

// IsScriptFile reports whether path is a tengo script.
func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}

// Load loads a single document or every document under a directory.
func Load(path string) (*Loaded, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: "config path not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: fmt.Sprintf("error accessing config path: %v", err)}
	}

	var files []string
	if info.IsDir() {
		files, err = FindConfigFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, File: path, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, File: path, Message: "no .yaml, .yml or .cue files found"}
		}
	} else {
		files = []string{path}
	}

	merged := &Document{}
	owners := map[string]string{}
	for _, f := range files {
		doc, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		if err := merge(merged, doc, f, owners); err != nil {
			return nil, err
		}
	}

	hash, err := ir.ContentHash(ir.DomainSnapshot, merged)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return &Loaded{Doc: merged, Files: files, Hash: hash}, nil
}

// FindConfigFiles walks dir and returns config documents in lexical order.
func FindConfigFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsConfigFile(path) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadFile parses one document and inlines any script files it references.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: err.Error()}
	}

	var doc *Document
	if strings.ToLower(filepath.Ext(path)) == ".cue" {
		doc, err = ParseCUE(data, path)
	} else {
		doc, err = ParseYAML(data)
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, File: path, Message: err.Error()}
	}

	for id, s := range doc.Scripts {
		if s.File == "" {
			continue
		}
		ref := s.File
		if !filepath.IsAbs(ref) {
			ref = filepath.Join(filepath.Dir(path), ref)
		}
		src, err := os.ReadFile(ref)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScriptFile, File: path, Field: "scripts." + id, Message: err.Error()}
		}
		s.Source = string(src)
		s.File = ""
		doc.Scripts[id] = s
	}
	return doc, nil
}

// ParseYAML parses a YAML document. Unknown fields are rejected.
func ParseYAML(data []byte) (*Document, error) {
	doc := &Document{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		// Empty file
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return nil, err
	}
	return doc, nil
}

// ParseCUE evaluates a CUE document and decodes it. filename is used in
// error positions only.
func ParseCUE(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cuecontext.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling CUE: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("validating CUE: %w", err)
	}

	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("exporting CUE: %w", err)
	}
	doc := &Document{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding CUE: %w", err)
	}
	return doc, nil
}

// merge adds src into dst. owners tracks which file defined each id.
func merge(dst, src *Document, file string, owners map[string]string) error {
	var err error
	dst.Displays, err = mergeSection(dst.Displays, src.Displays, "displays", file, owners)
	if err != nil {
		return err
	}
	dst.Animations, err = mergeSection(dst.Animations, src.Animations, "animations", file, owners)
	if err != nil {
		return err
	}
	dst.Rotations, err = mergeSection(dst.Rotations, src.Rotations, "rotations", file, owners)
	if err != nil {
		return err
	}
	// Conditionals and scripts share the %placeholder_<id>% namespace
	dst.Conditionals, err = mergeSection(dst.Conditionals, src.Conditionals, "placeholder", file, owners)
	if err != nil {
		return err
	}
	dst.Scripts, err = mergeSection(dst.Scripts, src.Scripts, "placeholder", file, owners)
	if err != nil {
		return err
	}
	dst.Replacements, err = mergeSection(dst.Replacements, src.Replacements, "replacements", file, owners)
	return err
}

func mergeSection[T any](dst, src map[string]T, section, file string, owners map[string]string) (map[string]T, error) {
	if len(src) == 0 {
		return dst, nil
	}
	if dst == nil {
		dst = make(map[string]T, len(src))
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		owner := section + "." + k
		if prev, ok := owners[owner]; ok {
			return nil, &LoadError{
				Code:    ErrCodeDuplicate,
				File:    file,
				Field:   owner,
				Message: fmt.Sprintf("already defined in %s", prev),
			}
		}
		owners[owner] = file
		dst[k] = src[k]
	}
	return dst, nil
}
