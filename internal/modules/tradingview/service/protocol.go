package service

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const frameMarker = "~m~"

// wireMessage — полезная нагрузка кадра: {"m": func, "p": [params...]}.
type wireMessage struct {
	M string `json:"m"`
	P []any  `json:"p"`
}

// prependHeader оборачивает текст в кадр протокола: ~m~<len>~m~<text>.
// Длина считается в байтах.
func prependHeader(text string) string {
	return frameMarker + strconv.Itoa(len(text)) + frameMarker + text
}

func createMessage(fn string, params []any) (string, error) {
	b, err := sonic.Marshal(wireMessage{M: fn, P: params})
	if err != nil {
		return "", errors.Wrapf(err, "marshal %s", fn)
	}
	return prependHeader(string(b)), nil
}

// splitFrames разбирает входящее ws-сообщение на payload'ы кадров.
// Мусор вне рамок ~m~<len>~m~ молча пропускаем — сервер шлёт и служебные
// куски, которые нам не нужны.
func splitFrames(msg string) []string {
	var out []string

	for strings.HasPrefix(msg, frameMarker) {
		rest := msg[len(frameMarker):]
		end := strings.Index(rest, frameMarker)
		if end < 0 {
			break
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil || n < 0 {
			break
		}
		body := rest[end+len(frameMarker):]
		if len(body) < n {
			break
		}
		out = append(out, body[:n])
		msg = body[n:]
	}

	return out
}

const sessionIDLength = 12

// generateSession — "qs_"/"cs_" + 12 случайных строчных букв.
func generateSession(prefix string) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, sessionIDLength)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return prefix + string(b)
}
