package placeholder

import "github.com/roach88/marquee/internal/ir"

// Source exposes the pipeline as an AttributeSource for one render, so
// conditions can compare animation frames and custom placeholders as well
// as plain attributes.
//
// The entity passed to Lookup replaces req.Entity; the pair is kept.
func (p *Pipeline) Source(req Request, src ir.AttributeSource) ir.AttributeSource {
	if src == nil {
		src = ir.EmptySource{}
	}
	return ir.SourceFunc(func(entity, token string) string {
		r := Request{Entity: entity, Pair: req.Pair}
		return p.resolve(token, r, src)
	})
}
