package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wyfcoding/naivebayes/xerrors"
)

// ParseCSV 解析逗号分隔的文本：空行跳过，字段去除首尾空白并做轻量类型转换。
func ParseCSV(text string) ([][]Value, error) {
	return ReadCSV(strings.NewReader(text))
}

// ReadCSV 从 r 中读取全部 CSV 行。
func ReadCSV(r io.Reader) ([][]Value, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]Value
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, xerrors.ErrInvalidInput.Derive("parse csv: %v", err).WithCause(err)
		}
		if isBlank(record) {
			continue
		}
		row := make([]Value, len(record))
		for i, field := range record {
			row[i] = NumOrStr(field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// NumOrStr 将字段转换为 int、float64，都不行时保留去空白后的字符串。
// 整数值的浮点数（如 "1.0"）归一为 int，使 "1" 与 "1.0" 落在同一个取值上。
func NumOrStr(field string) Value {
	s := strings.TrimSpace(field)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		if f == math.Trunc(f) && f >= math.MinInt && f < math.MaxInt {
			return int(f)
		}
		return f
	}
	return s
}

// SplitHeader 将首行作为属性名拆出。
func SplitHeader(rows [][]Value) ([]string, [][]Value, error) {
	if len(rows) == 0 {
		return nil, nil, xerrors.ErrEmptyExamples.Derive("no header row")
	}
	names := make([]string, len(rows[0]))
	for i, v := range rows[0] {
		names[i] = fmt.Sprint(v)
	}
	return names, rows[1:], nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
