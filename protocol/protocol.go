/*
Package protocol - построчный формат аргументов и ответов команд шлюза.

Запрос: строка с именем команды, затем по одной строке на аргумент, затем строка "e".
Каждый аргумент - однобуквенный тег типа и значение:
	n        nil
	s<text>  строка, '\n' '\r' '\' экранируются обратной косой чертой
	i<int>   целое
	d<float> число с плавающей точкой
	b<bool>  true или false
	r<id>    ссылка на объект шлюза
	v        нет значения (ответ метода без результата)
Ответ одной строкой: "!y<значение>" или "!x<текст ошибки>".
*/
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	// EndToken - конец аргументов запроса
	EndToken = "e"
	// QuitToken - клиент завершает соединение
	QuitToken = "q"

	SuccessPrefix = "!y"
	ErrorPrefix   = "!x"
)

// Теги типов значений
const (
	NullTag      = 'n'
	StringTag    = 's'
	IntegerTag   = 'i'
	DoubleTag    = 'd'
	BooleanTag   = 'b'
	ReferenceTag = 'r'
	VoidTag      = 'v'
)

// ErrInvalidUTF8 - строка запроса не является корректным UTF-8
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

const (
	// MaxLineLength - максимальная длина одной строки вместе с \n
	MaxLineLength  = 1 << 20
	// MaxRequestSize - максимальный суммарный размер строк одного запроса
	MaxRequestSize = 4 * MaxLineLength
)

var (
	// ErrLineTooLong - строка длиннее MaxLineLength
	ErrLineTooLong     = errors.New("line is too long")
	// ErrRequestTooLarge - аргументы запроса больше MaxRequestSize
	ErrRequestTooLarge = errors.New("request is too large")
)

// ReadLine - читает одну строку без завершающего \n (и \r).
// Последняя строка без \n перед концом потока возвращается без ошибки, следующий вызов вернет io.EOF
func ReadLine(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxLineLength {
			return "", ErrLineTooLong
		}
		buf = append(buf, chunk...)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil && (err != io.EOF || len(buf) == 0) {
			return "", err
		}
		break
	}
	line := strings.TrimSuffix(string(buf), "\n")
	line = strings.TrimSuffix(line, "\r")
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}
	return line, nil
}

// ReadLines - читает строки до EndToken (не включая его)
func ReadLines(r *bufio.Reader) ([]string, error) {
	var res []string
	var size int
	for {
		line, err := ReadLine(r)
		if err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if line == EndToken {
			return res, nil
		}
		if size += len(line); size > MaxRequestSize {
			return nil, ErrRequestTooLarge
		}
		res = append(res, line)
	}
}

// ReadArgs - читает и декодирует аргументы до EndToken
func ReadArgs(r *bufio.Reader, resolve Resolver) ([]interface{}, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return DecodeAll(lines, resolve)
}

// WriteSuccess - ответ с уже закодированным значением
func WriteSuccess(w *bufio.Writer, encoded string) error {
	if _, err := w.WriteString(SuccessPrefix + encoded + "\n"); err != nil {
		return err
	}
	return w.Flush()
}

// WriteError - ответ с ошибкой
func WriteError(w *bufio.Writer, e error) error {
	if _, err := w.WriteString(ErrorPrefix + Escape(e.Error()) + "\n"); err != nil {
		return err
	}
	return w.Flush()
}

// ParseReply - разбирает строку ответа, возвращает закодированное значение
func ParseReply(line string) (string, error) {
	switch {
	case strings.HasPrefix(line, SuccessPrefix):
		return line[len(SuccessPrefix):], nil
	case strings.HasPrefix(line, ErrorPrefix):
		return "", errors.New(Unescape(line[len(ErrorPrefix):]))
	default:
		return "", fmt.Errorf("malformed reply %q", line)
	}
}
