// Package settings holds site-wide presentation settings: wiki paths, media
// URLs, category names and embed placeholders. They are read from a YAML file
// and may be overridden by environment variables.
package settings

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Categories struct {
	Published    string `yaml:"published"`
	Authors      string `yaml:"authors"`
	Articles     string `yaml:"articles"`
	Supplemental string `yaml:"supplemental"`
}

type Placeholders struct {
	Image    string `yaml:"image"`
	Video    string `yaml:"video"`
	Document string `yaml:"document"`
}

type Settings struct {
	SiteURL         string       `yaml:"siteURL"`
	TitleSuffix     string       `yaml:"titleSuffix"`
	ScriptPath      string       `yaml:"scriptPath"`
	SourcesPath     string       `yaml:"sourcesPath"`
	MediaURL        string       `yaml:"mediaURL"`
	SourceMediaURL  string       `yaml:"sourceMediaURL"`
	StreamingPrefix string       `yaml:"streamingPrefix"`
	ShowUnpublished bool         `yaml:"showUnpublished"`
	Categories      Categories   `yaml:"categories"`
	Placeholders    Placeholders `yaml:"placeholders"`
}

func Default() *Settings {
	return &Settings{
		SiteURL:         "http://localhost:8080",
		TitleSuffix:     " - Densho Encyclopedia",
		ScriptPath:      "/mediawiki/index.php",
		SourcesPath:     "/sources/",
		MediaURL:        "/media/",
		SourceMediaURL:  "/media/sources/",
		StreamingPrefix: "rtmp://streaming.densho.org/denshostream",
		Categories: Categories{
			Published:    "Published",
			Authors:      "Authors",
			Articles:     "Articles",
			Supplemental: "Supplemental_Materials",
		},
		Placeholders: Placeholders{
			Image:    "img/icon-image.png",
			Video:    "img/icon-video.png",
			Document: "img/icon-document.png",
		},
	}
}

func (s *Settings) Validate() error {
	var errs []error
	if s.ScriptPath == "" || !strings.HasPrefix(s.ScriptPath, "/") {
		errs = append(errs, fmt.Errorf("scriptPath must be an absolute path, got %q", s.ScriptPath))
	}
	if s.SourcesPath == "" {
		errs = append(errs, errors.New("sourcesPath is required"))
	}
	if s.Categories.Published == "" {
		errs = append(errs, errors.New("categories.published is required"))
	}
	return errors.Join(errs...)
}

type Loader struct {
	reader io.Reader
}

func NewLoader(reader io.Reader) *Loader {
	return &Loader{reader: reader}
}

// Load decodes settings on top of Default, so a file only needs to name the
// values it changes.
func (l *Loader) Load(validate bool) (*Settings, error) {
	s := Default()
	decoder := yaml.NewDecoder(l.reader)
	if err := decoder.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if validate {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads SETTINGS_PATH when set, falls back to defaults otherwise, then
// applies environment overrides.
func Load() (*Settings, error) {
	s := Default()
	if path := os.Getenv("SETTINGS_PATH"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open settings file: %w", err)
		}
		defer f.Close()
		s, err = NewLoader(f).Load(false)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded settings file", "path", path)
	}
	s.ApplyEnv()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) ApplyEnv() {
	if v := os.Getenv("SITE_URL"); v != "" {
		s.SiteURL = v
	}
	if v := os.Getenv("MEDIA_URL"); v != "" {
		s.MediaURL = v
	}
	if v := os.Getenv("SOURCES_MEDIA_URL"); v != "" {
		s.SourceMediaURL = v
	}
	if v := os.Getenv("RTMP_STREAMER"); v != "" {
		s.StreamingPrefix = v
	}
	if v := os.Getenv("SHOW_UNPUBLISHED"); v != "" {
		s.ShowUnpublished = v == "true"
	}
}
