package mapping

import "reflect"

// Kind tags the shape of a raw relation payload.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindRecord
	KindRecordArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	case KindRecordArray:
		return "record_array"
	default:
		return "unknown"
	}
}

// Value is the tagged union handed to relation mappers.
type Value struct {
	kind    Kind
	scalar  any
	record  Record
	records []Record
}

func Null() Value {
	return Value{kind: KindNull}
}

func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

func RecordValue(r Record) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindRecord, record: r}
}

func RecordArrayValue(rs []Record) Value {
	return Value{kind: KindRecordArray, records: rs}
}

// ValueOf classifies a raw relation payload read from a record.
func ValueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case Record:
		return RecordValue(v)
	case map[string]any:
		return RecordValue(v)
	case []Record:
		return RecordArrayValue(v)
	case []map[string]any:
		rs := make([]Record, 0, len(v))
		for _, m := range v {
			if m != nil {
				rs = append(rs, m)
			}
		}
		return RecordArrayValue(rs)
	case []any:
		rs := make([]Record, 0, len(v))
		for _, item := range v {
			switch m := item.(type) {
			case Record:
				rs = append(rs, m)
			case map[string]any:
				rs = append(rs, m)
			}
		}
		return RecordArrayValue(rs)
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null()
	}
	return Scalar(raw)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) Scalar() any {
	return v.scalar
}

func (v Value) Record() Record {
	return v.record
}

func (v Value) Records() []Record {
	return v.records
}
