package dto

// GenerateQuestionRequest payload for v1 generation.
type GenerateQuestionRequest struct {
	Theme *string `json:"theme"`
}

// GenerateQuestionsRequest payload for v2 batch generation.
type GenerateQuestionsRequest struct {
	Theme    *string `json:"theme"`
	Quantity *int    `json:"quantity"`
}

// QuestionBody wraps a question.
type QuestionBody struct {
	Question *string `json:"question"`
}

// AnswerBody wraps an answer.
type AnswerBody struct {
	Answer *string `json:"answer"`
}

// AnalyzeResponseRequest payload for answer grading.
type AnalyzeResponseRequest struct {
	Question *QuestionBody `json:"question"`
	Answer   *AnswerBody   `json:"answer"`
}
