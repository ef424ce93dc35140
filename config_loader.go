package contagiongo

import "github.com/BurntSushi/toml"

// LoadRunConfig decodes a TOML file at path into a RunConfig, the same
// toml.DecodeFile pattern the teacher uses for its own config structs.
func LoadRunConfig(path string) (*RunConfig, error) {
	c := new(RunConfig)
	_, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
