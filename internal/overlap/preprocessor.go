package overlap

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
)

// ErrChunkFailed is returned when at least one chunk could not be computed
var ErrChunkFailed = errors.New("overlap chunk failed")

// Preprocessor computes, for every token, the other tokens sharing a k-combination
// of its traits for each k in domain.OverlapSizes
type Preprocessor struct {
	chunks  int
	compute chunkFunc
}

type chunkFunc func(ctx context.Context, index *Index, chunk []domain.Token, ignoredTypes []string) ([]domain.Token, error)

// NewPreprocessor creates a preprocessor splitting the work into the given number of chunks.
// Zero or less uses one chunk per CPU.
func NewPreprocessor(chunks int) *Preprocessor {
	if chunks <= 0 {
		chunks = runtime.NumCPU()
	}
	return &Preprocessor{chunks: chunks, compute: computeChunk}
}

type chunkResult struct {
	start  int
	tokens []domain.Token
}

// Run returns a copy of tokens with overlaps filled in, in input order. Tokens of a failed chunk
// are returned unchanged with OverlapsComputed false, and the first chunk error is returned alongside.
func (p *Preprocessor) Run(ctx context.Context, tokens []domain.Token, ignoredTypes []string) ([]domain.Token, error) {
	out := make([]domain.Token, len(tokens))
	copy(out, tokens)
	if len(tokens) == 0 {
		return out, nil
	}

	index := NewIndex(tokens, ignoredTypes)

	chunkSize := (len(tokens) + p.chunks - 1) / p.chunks
	pool := pond.NewResultPool[chunkResult](p.chunks)
	defer pool.StopAndWait()

	type pending struct {
		start, end int
		task       pond.Result[chunkResult]
	}
	var tasks []pending
	for start := 0; start < len(tokens); start += chunkSize {
		end := min(start+chunkSize, len(tokens))
		chunk := tokens[start:end]
		s := start
		tasks = append(tasks, pending{
			start: start,
			end:   end,
			task: pool.SubmitErr(func() (chunkResult, error) {
				computed, err := p.compute(ctx, index, chunk, ignoredTypes)
				return chunkResult{start: s, tokens: computed}, err
			}),
		})
	}

	var firstErr error
	for _, pt := range tasks {
		result, err := pt.task.Wait()
		if err != nil {
			logger.ErrorCtx(ctx, err,
				zap.String("message", "Overlap chunk failed"),
				zap.Int("start", pt.start),
				zap.Int("end", pt.end),
			)
			for i := pt.start; i < pt.end; i++ {
				out[i].Overlaps = [len(domain.OverlapSizes)]domain.Overlap{}
				out[i].OverlapsComputed = false
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: tokens %d-%d: %w", ErrChunkFailed, pt.start, pt.end, err)
			}
			continue
		}
		copy(out[result.start:], result.tokens)
	}

	return out, firstErr
}

// computeChunk fills the overlaps of a slice of tokens. Combination lookups are memoized per chunk.
func computeChunk(ctx context.Context, index *Index, chunk []domain.Token, ignoredTypes []string) ([]domain.Token, error) {
	memo := make(map[string][]int64)
	computed := make([]domain.Token, len(chunk))

	for i, token := range chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		traits := normalizedTraits(token.Traits, ignoredTypes)
		computed[i] = token
		for s, k := range domain.OverlapSizes {
			computed[i].Overlaps[s] = tokenOverlap(index, memo, token.ID, traits, k)
		}
		computed[i].OverlapsComputed = true
	}

	return computed, nil
}

// tokenOverlap unions the holders of every k-combination of traits, excluding the token itself
func tokenOverlap(index *Index, memo map[string][]int64, self int64, traits []domain.TraitID, k int) domain.Overlap {
	if len(traits) < k {
		return domain.Overlap{Count: 0, IDs: []int64{}}
	}

	seen := make(map[int64]struct{})
	combo := make([]int, k)
	picked := make([]domain.TraitID, k)
	gen := combin.NewCombinationGenerator(len(traits), k)
	for gen.Next() {
		gen.Combination(combo)
		for i, idx := range combo {
			picked[i] = traits[idx]
		}

		key := comboKey(picked)
		holders, ok := memo[key]
		if !ok {
			holders = index.Holders(picked)
			memo[key] = holders
		}
		for _, id := range holders {
			if id != self {
				seen[id] = struct{}{}
			}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return domain.Overlap{Count: len(ids), IDs: ids}
}
