package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"neorecon/internal/core/model"
)

// JsonReporter 负责将结果导出为 JSON 文件
type JsonReporter struct {
	FilePath string
}

func NewJsonReporter(filePath string) *JsonReporter {
	return &JsonReporter{
		FilePath: filePath,
	}
}

// Report 追加式 JSON 输出意义不大，与 CSV 一致采用扫描结束后一次性导出
func (r *JsonReporter) Report(ctx context.Context, result *model.TaskResult) error {
	return nil
}

// SaveJsonResult 一次性将结果保存为 JSON 文件
func SaveJsonResult(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write json output: %w", err)
	}

	fmt.Printf("[+] Results saved to %s\n", path)
	return nil
}
