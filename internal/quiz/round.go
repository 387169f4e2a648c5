// round.go

package quiz

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrRoundOver 本轮已结束
	ErrRoundOver = errors.New("quiz round is over")
	// ErrInvalidChoice 选项下标越界
	ErrInvalidChoice = errors.New("invalid choice")
)

// Result 一次作答的结果
type Result struct {
	Correct  bool `json:"correct" msgpack:"correct"`
	Retry    bool `json:"retry" msgpack:"retry"` // 答错但还能再答
	Index    int  `json:"index" msgpack:"index"` // 作答的题号
	Answer   int  `json:"answer,omitempty" msgpack:"answer,omitempty"` // 本题结束后才公布
	Done     bool `json:"done" msgpack:"done"`
	Earned   int  `json:"earned" msgpack:"earned"`
	Attempts int  `json:"attempts" msgpack:"attempts"`
}

// Round 一轮答题，非并发安全
type Round struct {
	questions []Question
	index     int
	attempts  int
	earned    int
}

// NewRound 开始新一轮
func NewRound(rng *rand.Rand) *Round {
	return &Round{questions: Generate(rng, QuestionsPerRound)}
}

// Questions 本轮全部题目
func (r *Round) Questions() []Question {
	return r.questions
}

// Current 当前题目
func (r *Round) Current() (Question, int, bool) {
	if r.Done() {
		return Question{}, r.index, false
	}
	return r.questions[r.index], r.index, true
}

// Done 是否已答完
func (r *Round) Done() bool {
	return r.index >= len(r.questions)
}

// Earned 已获得的子弹数
func (r *Round) Earned() int {
	return r.earned
}

// Answer 回答当前题目。答对得4发并进入下一题；
// 第二次答错不得分进入下一题。
func (r *Round) Answer(choice int) (Result, error) {
	q, idx, ok := r.Current()
	if !ok {
		return Result{}, ErrRoundOver
	}
	if choice < 0 || choice >= len(q.Choices) {
		return Result{}, ErrInvalidChoice
	}

	r.attempts++
	res := Result{Index: idx, Attempts: r.attempts}
	switch {
	case q.Choices[choice] == q.answer:
		res.Correct = true
		r.earned += BulletsPerCorrect
		r.next()
	case r.attempts >= MaxAttempts:
		r.next()
	default:
		res.Retry = true
	}
	if !res.Retry {
		res.Answer = q.answer
	}
	res.Done = r.Done()
	res.Earned = r.earned
	return res, nil
}

func (r *Round) next() {
	r.index++
	r.attempts = 0
}
