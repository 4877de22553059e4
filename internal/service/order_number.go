package service

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/storefront-next/internal/constants"
)

// RandomSource 随机数来源
type RandomSource interface {
	Intn(n int) int
}

type cryptoRandom struct{}

func (cryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return int(time.Now().UnixNano() % int64(n))
	}
	return int(v.Int64())
}

// OrderNumberGenerator 订单编号生成器：ORD-YYYYMMDD-HHMMSS-NNNN
type OrderNumberGenerator struct {
	now      func() time.Time
	random   RandomSource
	location *time.Location
	modulus  int
}

// NewOrderNumberGenerator 创建订单编号生成器，nil 参数使用系统时钟与加密随机源
func NewOrderNumberGenerator(now func() time.Time, random RandomSource, location *time.Location) *OrderNumberGenerator {
	if now == nil {
		now = time.Now
	}
	if random == nil {
		random = cryptoRandom{}
	}
	if location == nil {
		location = time.UTC
	}
	return &OrderNumberGenerator{
		now:      now,
		random:   random,
		location: location,
		modulus:  int(math.Pow10(constants.OrderNumberSuffixDigits)),
	}
}

// Next 生成下一个候选编号，唯一性由调用方结合存储校验
func (g *OrderNumberGenerator) Next() string {
	t := g.now().In(g.location)
	return fmt.Sprintf("%s-%s-%s-%0*d",
		constants.OrderNumberPrefix,
		t.Format("20060102"),
		t.Format("150405"),
		constants.OrderNumberSuffixDigits,
		g.random.Intn(g.modulus),
	)
}
