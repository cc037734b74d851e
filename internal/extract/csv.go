package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

func fromCSV(content []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read csv: %w", err)
	}
	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(strings.Join(row, " "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
