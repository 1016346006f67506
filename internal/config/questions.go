package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultSampleQuestions seed the chat page hints when no questions file is
// configured.
var defaultSampleQuestions = []string{
	"Show sample data",
	"How many records are there?",
	"What is the structure of the data?",
	"Explain the dataset",
	"Which columns are available?",
	"Show recent data",
	"What is the summary?",
	"Describe the data",
}

type questionsFile struct {
	Questions []string `yaml:"questions"`
}

// LoadQuestions loads sample questions from a YAML file. An empty path or a
// missing file falls back to the built-in defaults; a malformed file is an error.
func LoadQuestions(filePath string) ([]string, error) {
	if filePath == "" {
		return defaultSampleQuestions, nil
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultSampleQuestions, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var qf questionsFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("failed to parse questions file %s: %w", filePath, err)
	}

	if len(qf.Questions) == 0 {
		return defaultSampleQuestions, nil
	}
	return qf.Questions, nil
}
