package protocol

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Void - результат метода без возвращаемого значения
type Void struct{}

// Resolver - находит объект по ссылке
type Resolver func(ID string) (interface{}, error)

// Registrar - сохраняет объект и возвращает ссылку на него
type Registrar func(obj interface{}) string

var escaper = strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\r", "\\r")

// Escape - экранирует строку для передачи в одной строке протокола
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape - обратное преобразование Escape. Неизвестные последовательности остаются как есть
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Decode - значение из строки аргумента
func Decode(line string, resolve Resolver) (interface{}, error) {
	if len(line) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	body := line[1:]
	switch line[0] {
	case NullTag:
		return nil, nil
	case VoidTag:
		return Void{}, nil
	case StringTag:
		return Unescape(body), nil
	case IntegerTag:
		return strconv.ParseInt(body, 10, 64)
	case DoubleTag:
		return strconv.ParseFloat(body, 64)
	case BooleanTag:
		return strconv.ParseBool(body)
	case ReferenceTag:
		if resolve == nil {
			return nil, fmt.Errorf("reference %s can not be resolved", body)
		}
		return resolve(body)
	default:
		return nil, fmt.Errorf("unknown value type %q", line[0])
	}
}

// DecodeAll - декодирует все строки аргументов
func DecodeAll(lines []string, resolve Resolver) ([]interface{}, error) {
	res := make([]interface{}, 0, len(lines))
	for i, l := range lines {
		v, err := Decode(l, resolve)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res = append(res, v)
	}
	return res, nil
}

// Encode - строка значения для ответа. Составные значения сохраняются через register и передаются ссылкой
func Encode(v interface{}, register Registrar) string {
	if v == nil {
		return string(NullTag)
	}
	switch val := v.(type) {
	case Void:
		return string(VoidTag)
	case string:
		return string(StringTag) + Escape(val)
	case bool:
		return string(BooleanTag) + strconv.FormatBool(val)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return string(IntegerTag) + strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return string(IntegerTag) + strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return string(DoubleTag) + strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return string(NullTag)
		}
	}
	return string(ReferenceTag) + register(v)
}
