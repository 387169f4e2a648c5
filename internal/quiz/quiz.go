// quiz.go

package quiz

import (
	"fmt"
	"math/rand/v2"
)

const (
	// QuestionsPerRound 每轮题目数
	QuestionsPerRound = 3
	// MaxAttempts 每题可作答次数
	MaxAttempts = 2
	// BulletsPerCorrect 每答对一题奖励的子弹
	BulletsPerCorrect = 4
	// ChoiceCount 每题选项数
	ChoiceCount = 4

	maxOperand  = 20
	additionPct = 0.7
)

// Op 运算符
type Op string

const (
	// OpAdd 加法
	OpAdd Op = "+"
	// OpSub 减法
	OpSub Op = "-"
)

// Question 一道算术选择题
type Question struct {
	A       int   `json:"a" msgpack:"a"`
	B       int   `json:"b" msgpack:"b"`
	Op      Op    `json:"op" msgpack:"op"`
	Choices []int `json:"choices" msgpack:"choices"`

	answer int
}

// Text 题面
func (q Question) Text() string {
	return fmt.Sprintf("%d %s %d = ?", q.A, q.Op, q.B)
}

// Answer 正确答案
func (q Question) Answer() int {
	return q.answer
}

// AnswerIndex 正确答案所在的选项下标
func (q Question) AnswerIndex() int {
	for i, c := range q.Choices {
		if c == q.answer {
			return i
		}
	}
	return -1
}

// key 去重用；加法交换律视为同一题
func (q Question) key() string {
	a, b := q.A, q.B
	if q.Op == OpAdd && a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d%s%d", a, q.Op, b)
}

// NewQuestion 随机出一道题：70% 加法(和不超过20)，30% 减法(结果非负)
func NewQuestion(rng *rand.Rand) Question {
	var q Question
	lo := 0
	if rng.Float64() < additionPct {
		q.Op = OpAdd
		q.A = randInt(rng, 1, 10)
		q.B = randInt(rng, 1, maxOperand-q.A)
		q.answer = q.A + q.B
		lo = 1
	} else {
		q.Op = OpSub
		q.A = randInt(rng, 1, maxOperand)
		q.B = randInt(rng, 1, q.A)
		q.answer = q.A - q.B
	}
	q.Choices = choices(rng, q.answer, lo, maxOperand)
	return q
}

// Generate 生成 n 道互不相同的题
func Generate(rng *rand.Rand, n int) []Question {
	used := make(map[string]bool, n)
	out := make([]Question, 0, n)
	for len(out) < n {
		q := NewQuestion(rng)
		if used[q.key()] {
			continue
		}
		used[q.key()] = true
		out = append(out, q)
	}
	return out
}

// choices 答案加3个不重复的干扰项(答案±1~3，限制在[lo,hi])，答案随机插入
func choices(rng *rand.Rand, answer, lo, hi int) []int {
	seen := map[int]bool{answer: true}
	wrong := make([]int, 0, ChoiceCount-1)
	for len(wrong) < ChoiceCount-1 {
		w := answer + randInt(rng, -3, 3)
		if seen[w] || w < lo || w > hi {
			continue
		}
		seen[w] = true
		wrong = append(wrong, w)
	}
	idx := rng.IntN(ChoiceCount)
	out := make([]int, 0, ChoiceCount)
	out = append(out, wrong[:idx]...)
	out = append(out, answer)
	return append(out, wrong[idx:]...)
}

func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
