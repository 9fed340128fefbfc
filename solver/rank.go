package solver

import (
	"container/heap"
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/powellquiring/wordlesolver/wordle"
)

// MinHeap is a generic min-heap that can store any type T.
type MinHeap[T any] struct {
	data []T
	less func(a, b T) bool
}

func NewMinHeap[T any](less func(a, b T) bool) *MinHeap[T] {
	ret := &MinHeap[T]{less: less}
	heap.Init(ret)
	return ret
}

func (h *MinHeap[T]) Len() int           { return len(h.data) }
func (h *MinHeap[T]) Less(i, j int) bool { return h.less(h.data[i], h.data[j]) }
func (h *MinHeap[T]) Swap(i, j int)      { h.data[i], h.data[j] = h.data[j], h.data[i] }

// Push adds an element to the heap, use heap.Push.
func (h *MinHeap[T]) Push(x any) {
	h.data = append(h.data, x.(T))
}

// Pop removes the smallest element, use heap.Pop.
func (h *MinHeap[T]) Pop() any {
	n := len(h.data)
	item := h.data[n-1]
	h.data = h.data[0 : n-1]
	return item
}

// Peek returns the smallest element without removing it.
func (h *MinHeap[T]) Peek() T {
	return h.data[0]
}

// Rank scores the pool against the candidates and returns the n best, best first.  n <= 0 returns
// every scored guess.  Like BestGuess a done context returns what was scored in time.
func Rank(ctx context.Context, pool, candidates []wordle.Word, opts Options, n int) []Score {
	if len(pool) == 0 || len(candidates) == 0 {
		return nil
	}
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}
	scores, scored := scorePool(ctx, pool, candidates, opts)

	// the root is the worst of the kept scores
	worst := NewMinHeap(func(a, b Score) bool { return opts.Criterion.Better(b, a) })
	for i, score := range scores {
		if !scored[i] {
			continue
		}
		if worst.Len() < n {
			heap.Push(worst, score)
		} else if opts.Criterion.Better(score, worst.Peek()) {
			heap.Pop(worst)
			heap.Push(worst, score)
		}
	}
	ret := make([]Score, worst.Len())
	for i := len(ret) - 1; i >= 0; i-- {
		ret[i] = heap.Pop(worst).(Score)
	}
	return ret
}

// repeated letters cost this much each in RankByFrequency
const repeatPenalty = 0.15

// RankByFrequency orders words by how common their letters are among the words themselves:
// letters in the same position count once per word sharing them, distinct letters count once per
// occurrence anywhere, and every repeated letter costs a little.  Ties are alphabetical.
func RankByFrequency(words []wordle.Word) []wordle.Word {
	if len(words) == 0 {
		return nil
	}
	length := len(words[0])
	positional := make([][wordle.Alphabet]int, length)
	var global [wordle.Alphabet]int
	for _, word := range words {
		for i := 0; i < len(word); i++ {
			positional[i][word[i]-'a']++
			global[word[i]-'a']++
		}
	}

	scores := make(map[wordle.Word]float64, len(words))
	for _, word := range words {
		unique := mapset.NewThreadUnsafeSet()
		score := 0.0
		for i := 0; i < len(word); i++ {
			score += float64(positional[i][word[i]-'a'])
			if unique.Add(word[i]) {
				score += float64(global[word[i]-'a'])
			}
		}
		score -= repeatPenalty * float64(len(word)-unique.Cardinality())
		scores[word] = score
	}

	ret := append([]wordle.Word(nil), words...)
	sort.SliceStable(ret, func(i, j int) bool {
		a, b := ret[i], ret[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	})
	return ret
}
