package dto

// GenerateRequest AI 文案生成请求
type GenerateRequest struct {
	ProjectID    string `json:"project_id"`
	RawData      string `json:"raw_data" binding:"required"`
	TaskType     string `json:"task_type" binding:"required,oneof=title description seo custom"`
	CustomPrompt string `json:"custom_prompt"`
}

// GenerateResponse AI 文案生成结果
type GenerateResponse struct {
	TaskType string `json:"task_type"`
	Text     string `json:"text"`
	Model    string `json:"model"`
}
