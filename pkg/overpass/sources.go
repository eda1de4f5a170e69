package overpass

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/signalrail/signalrail/pkg/util"
	"gopkg.in/yaml.v3"
)

// EndpointSource is one YAML document describing a provider and the
// interpreter endpoints it runs.
type EndpointSource struct {
	Provider  string   `yaml:"provider"`
	Endpoints []string `yaml:"endpoints"`
}

// LoadEndpointSources walks a directory of YAML files and collects every
// declared interpreter endpoint, preserving file and document order. An
// empty or unreadable directory falls back to DefaultEndpoints.
func LoadEndpointSources(directory string) []string {
	var endpoints []string

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() || filepath.Ext(path) != ".yaml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading endpoint source file")

			sourceYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(sourceYaml))

			for {
				var source EndpointSource
				if decoder.Decode(&source) != nil {
					break
				}

				log.Info().Str("provider", source.Provider).Int("endpoints", len(source.Endpoints)).Msg("Registered Overpass provider")

				endpoints = append(endpoints, source.Endpoints...)
			}

			return nil
		})
	if err != nil {
		log.Error().Err(err).Str("directory", directory).Msg("Failed to load endpoint sources")
	}

	endpoints = util.RemoveDuplicateStrings(endpoints, nil)

	if len(endpoints) == 0 {
		return DefaultEndpoints
	}

	return endpoints
}
