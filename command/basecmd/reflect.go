package basecmd

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/blabu/egeonRpcGateway/protocol"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// convertValue - приводит декодированный аргумент к типу параметра
func convertValue(v interface{}, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil can not be used as %s", t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumber(rv.Kind()) && isNumber(t.Kind()) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%T can not be used as %s", v, t)
}

func isNumber(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// convertArgs - аргументы метода с учетом variadic параметра
func convertArgs(fn reflect.Type, args []interface{}) ([]reflect.Value, error) {
	in := fn.NumIn()
	if fn.IsVariadic() {
		if len(args) < in-1 {
			return nil, fmt.Errorf("expected at least %d arguments, got %d", in-1, len(args))
		}
	} else if len(args) != in {
		return nil, fmt.Errorf("expected %d arguments, got %d", in, len(args))
	}
	res := make([]reflect.Value, len(args))
	for i, a := range args {
		var t reflect.Type
		if fn.IsVariadic() && i >= in-1 {
			t = fn.In(in - 1).Elem()
		} else {
			t = fn.In(i)
		}
		v, err := convertValue(a, t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res[i] = v
	}
	return res, nil
}

// invoke - вызов с перехватом паники. Последний результат типа error становится ошибкой
func invoke(fn reflect.Value, args []interface{}) (result interface{}, err error) {
	in, err := convertArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			result, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	out := fn.Call(in)
	if n := len(out); n > 0 && fn.Type().Out(n-1) == errorType {
		if e := out[n-1].Interface(); e != nil {
			return nil, e.(error)
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return protocol.Void{}, nil
	}
	return out[0].Interface(), nil
}

// structField - экспортированное поле структуры (obj может быть указателем)
func structField(obj interface{}, name string) (reflect.Value, error) {
	rv := reflect.Indirect(reflect.ValueOf(obj))
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("object of type %T has no fields", obj)
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || sf.PkgPath != "" {
		return reflect.Value{}, fmt.Errorf("no field %s in %T", name, obj)
	}
	return rv.FieldByIndex(sf.Index), nil
}

// sequence - срез или массив (в том числе через указатель)
func sequence(obj interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Array {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, fmt.Errorf("object of type %T is not an array", obj)
	}
	return rv, nil
}

func checkIndex(rv reflect.Value, i int64) error {
	if i < 0 || i >= int64(rv.Len()) {
		return fmt.Errorf("index %d out of range [0:%d]", i, rv.Len())
	}
	return nil
}

// MaxSequenceLen - максимальная длина массива или списка, создаваемого по запросу клиента
const MaxSequenceLen = 1 << 20

var (
	errNotSettable     = errors.New("value is not settable")
	errNegativeLength  = errors.New("negative length")
	errSequenceTooLong = fmt.Errorf("length exceeds %d elements", MaxSequenceLen)
)

// describe - текст справки по объекту
func describe(obj interface{}) string {
	if obj == nil {
		return "type nil"
	}
	rv := reflect.ValueOf(obj)
	t := rv.Type()
	var b strings.Builder
	fmt.Fprintf(&b, "type %s\n", t)
	methods := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		methods = append(methods, t.Method(i).Name+strings.TrimPrefix(rv.Method(i).Type().String(), "func"))
	}
	fmt.Fprintf(&b, "methods: %s\n", strings.Join(methods, ", "))
	var fields []string
	if sv := reflect.Indirect(rv); sv.IsValid() && sv.Kind() == reflect.Struct {
		st := sv.Type()
		for i := 0; i < st.NumField(); i++ {
			if f := st.Field(i); f.PkgPath == "" {
				fields = append(fields, f.Name+" "+f.Type.String())
			}
		}
	}
	sort.Strings(fields)
	fmt.Fprintf(&b, "fields: %s", strings.Join(fields, ", "))
	return b.String()
}
