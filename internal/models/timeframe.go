package models

// Interval — числовой интервал протокола TradingView ("15","30","60","240").
type Interval string

const (
	Interval15m Interval = "15"
	Interval30m Interval = "30"
	Interval1h  Interval = "60"
	Interval4h  Interval = "240"
)

var intervalByLabel = map[string]Interval{
	"15m": Interval15m,
	"30m": Interval30m,
	"1h":  Interval1h,
	"4h":  Interval4h,
}

var labelByInterval = map[Interval]string{
	Interval15m: "15m",
	Interval30m: "30m",
	Interval1h:  "1h",
	Interval4h:  "4h",
}

// IntervalFromLabel переводит пользовательский таймфрейм ("15m".."4h")
// в интервал протокола.
func IntervalFromLabel(label string) (Interval, bool) {
	iv, ok := intervalByLabel[label]
	return iv, ok
}

// Label — обратное отображение для текста алертов и ключей дедупа.
func (i Interval) Label() string {
	if l, ok := labelByInterval[i]; ok {
		return l
	}
	return string(i)
}
