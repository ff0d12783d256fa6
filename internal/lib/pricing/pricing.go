package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Тарифы по умолчанию (демо-значения из публичных прайсов)
const (
	ImagePricePerMegapixelUSD = 0.003  // FLUX.1 schnell, за мегапиксель
	VideoPricePerSecondUSD    = 0.0333 // Framepack, за секунду

	pixelsPerMegapixel = 1_000_000
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// Calculator считает оценочную стоимость генерации по двум моделям тарификации
type Calculator struct {
	ImagePerMegapixel float64
	VideoPerSecond    float64
}

// New возвращает калькулятор с заданными ценами; нулевые значения заменяются тарифами по умолчанию
func New(imagePerMegapixel, videoPerSecond float64) Calculator {
	if imagePerMegapixel <= 0 {
		imagePerMegapixel = ImagePricePerMegapixelUSD
	}
	if videoPerSecond <= 0 {
		videoPerSecond = VideoPricePerSecondUSD
	}

	return Calculator{
		ImagePerMegapixel: imagePerMegapixel,
		VideoPerSecond:    videoPerSecond,
	}
}

func Default() Calculator {
	return New(ImagePricePerMegapixelUSD, VideoPricePerSecondUSD)
}

// MegapixelsFromDimensions округляет площадь вверх до целого мегапикселя.
// Для нулевой или отрицательной площади возвращает 0.
func MegapixelsFromDimensions(width, height int) int {
	area := int64(width) * int64(height)
	if area <= 0 {
		return 0
	}

	return int((area + pixelsPerMegapixel - 1) / pixelsPerMegapixel)
}

func (c Calculator) EstimateImageCostUSD(width, height int) float64 {
	return float64(MegapixelsFromDimensions(width, height)) * c.ImagePerMegapixel
}

// EstimateVideoCostUSD отрицательную длительность считает нулевой, NaN пробрасывается как есть
func (c Calculator) EstimateVideoCostUSD(seconds float64) float64 {
	return math.Max(0, seconds) * c.VideoPerSecond
}

// FormatUSD для сумм меньше $1 оставляет 4 знака, чтобы мелкие запросы не превращались в "$0.00"
func FormatUSD(value float64) string {
	if value < 1 {
		return fmt.Sprintf("$%.4f", value)
	}

	return fmt.Sprintf("$%.2f", value)
}

// ParseUSD разбирает строку вида "$0.025" обратно в число по ведущему числовому префиксу
// (допускается экспонента: "$1.5e3" = 1500). Нечисловые, бесконечные и отрицательные значения дают 0.
func ParseUSD(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))

	num := leadingNumber.FindString(s)
	if num == "" {
		return 0
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}

	return v
}
