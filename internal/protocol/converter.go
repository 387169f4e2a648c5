// converter.go

package protocol

import (
	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"github.com/jacl-coder/MonsterHunter-Server/internal/quiz"
)

// ConvertQuestion 将题目转换为下行事件，不带答案
func ConvertQuestion(q quiz.Question, index, attempts int) QuizQuestionEvent {
	return QuizQuestionEvent{
		Index:        index,
		Total:        quiz.QuestionsPerRound,
		Text:         q.Text(),
		Choices:      append([]int(nil), q.Choices...),
		AttemptsLeft: quiz.MaxAttempts - attempts,
	}
}

// ConvertQuizResult 将作答结果转换为下行事件
func ConvertQuizResult(r quiz.Result) QuizResultEvent {
	return QuizResultEvent{
		Index:   r.Index,
		Correct: r.Correct,
		Retry:   r.Retry,
		Answer:  r.Answer,
		Earned:  r.Earned,
		Done:    r.Done,
	}
}

// ConvertPickup 将拾取物渲染调用转换为下行事件
func ConvertPickup(id int, kind game.PickupKind, pos models.Vector3, visible bool) PickupEvent {
	return PickupEvent{ID: id, Kind: string(kind), Position: pos, Visible: visible}
}

// ConvertOutcome 将对局结果转换为下行事件
func ConvertOutcome(outcome game.Outcome, score, wave int) OutcomeEvent {
	return OutcomeEvent{Outcome: string(outcome), Score: score, Wave: wave}
}
