package ron

import (
	"github.com/cespare/xxhash"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/puzpuzpuz/xsync/v3"
)

const DefaultCacheSize = 1 << 12

type cached struct {
	text string
	op   Op
}

// Parser memoizes parsed ops by their text. Ops are immutable, so a
// cached op may be handed to any number of callers. Safe for
// concurrent use.
type Parser struct {
	cache  *lru.Cache[uint64, cached]
	hits   *xsync.Counter
	misses *xsync.Counter
}

type ParserStats struct {
	Hits   int64
	Misses int64
	Len    int
}

func NewParser(size int) (*Parser, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uint64, cached](size)
	if err != nil {
		return nil, err
	}
	return &Parser{
		cache:  cache,
		hits:   xsync.NewCounter(),
		misses: xsync.NewCounter(),
	}, nil
}

func (p *Parser) Parse(text string) (Op, error) {
	return p.ParseBytes([]byte(text))
}

func (p *Parser) ParseBytes(text []byte) (Op, error) {
	key := xxhash.Sum64(text)
	if c, ok := p.cache.Get(key); ok && c.text == string(text) {
		p.hits.Inc()
		return c.op, nil
	}
	p.misses.Inc()
	op, err := ParseOpBytes(text)
	if err != nil {
		return Op{}, err
	}
	p.cache.Add(key, cached{text: string(text), op: op})
	return op, nil
}

// ParseFrame is ParseFrame going through the cache.
func (p *Parser) ParseFrame(text string) (Frame, error) {
	return parseFrameWith([]byte(text), p.ParseBytes)
}

func (p *Parser) Stats() ParserStats {
	return ParserStats{
		Hits:   p.hits.Value(),
		Misses: p.misses.Value(),
		Len:    p.cache.Len(),
	}
}

func (p *Parser) Purge() {
	p.cache.Purge()
}
