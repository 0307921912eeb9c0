package testsupport

import (
	"encoding/csv"
	"os"
)

func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadRecords parses a CSV fixture including its header row.
func LoadRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
