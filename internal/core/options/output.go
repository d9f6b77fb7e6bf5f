package options

// OutputOptions 定义结果输出的通用参数
type OutputOptions struct {
	OutputJson string // --oj, 结果保存为 JSON 文件
	OutputCsv  string // --oc, 结果保存为 CSV 文件
}

// ApplyToParams 将输出参数应用到 Task 的 Params 中
func (o *OutputOptions) ApplyToParams(params map[string]interface{}) {
	if o.OutputJson != "" {
		params["output_json"] = o.OutputJson
	}
	if o.OutputCsv != "" {
		params["output_csv"] = o.OutputCsv
	}
}
