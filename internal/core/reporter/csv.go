package reporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"neorecon/internal/core/model"
)

// CsvReporter 负责将结果导出为 CSV 文件
type CsvReporter struct {
	FilePath string
}

func NewCsvReporter(filePath string) *CsvReporter {
	return &CsvReporter{
		FilePath: filePath,
	}
}

// Report CSV 的表头在第一条结果到来前无法确定，不做流式写入
// CLI 在所有扫描完成后调用 SaveCsvResult 一次性导出
func (r *CsvReporter) Report(ctx context.Context, result *model.TaskResult) error {
	return nil
}

// SaveCsvResult 这是一个辅助函数，用于一次性将结果保存为 CSV
func SaveCsvResult(path string, results []*model.TaskResult) error {
	if len(results) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %v", err)
	}
	defer f.Close()

	// 写入 UTF-8 BOM，防止 Excel 打开乱码
	f.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(f)
	defer w.Flush()

	var headers []string
	var allRows [][]string

	// 1. 收集数据
	for _, res := range results {
		if res.Data == nil {
			continue
		}
		if tabular, ok := res.Data.(TabularData); ok {
			if len(headers) == 0 {
				headers = tabular.Headers()
			}
			allRows = append(allRows, tabular.Rows()...)
		}
	}

	if len(headers) == 0 {
		return fmt.Errorf("no tabular data found to export")
	}

	// 2. 写入表头
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %v", err)
	}

	// 3. 写入行数据
	if err := w.WriteAll(allRows); err != nil {
		return fmt.Errorf("failed to write rows: %v", err)
	}

	fmt.Printf("[+] Results saved to %s\n", path)
	return nil
}
