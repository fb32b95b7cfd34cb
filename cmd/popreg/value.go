package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/popcop/internal/standard"
)

// parseValue builds a register value of the requested type from the
// command-line arguments. Vector types take one element per argument.
func parseValue(valueType string, args []string) (standard.RegisterValue, error) {
	switch valueType {
	case "str":
		return standard.StringValue(strings.Join(args, " ")), nil
	case "bytes":
		raw, err := hex.DecodeString(strings.Join(args, ""))
		if err != nil {
			return nil, fmt.Errorf("parse bytes: %w", err)
		}
		return standard.UnstructuredValue(raw), nil
	case "bool":
		out := make(standard.BooleanValue, len(args))
		for i, a := range args {
			v, err := strconv.ParseBool(a)
			if err != nil {
				return nil, fmt.Errorf("parse bool %q: %w", a, err)
			}
			out[i] = v
		}
		return out, nil
	case "i8", "i16", "i32", "i64":
		bits := intBits(valueType)
		vals := make([]int64, len(args))
		for i, a := range args {
			v, err := strconv.ParseInt(a, 0, bits)
			if err != nil {
				return nil, fmt.Errorf("parse %s %q: %w", valueType, a, err)
			}
			vals[i] = v
		}
		switch valueType {
		case "i8":
			out := make(standard.I8Value, len(vals))
			for i, v := range vals {
				out[i] = int8(v)
			}
			return out, nil
		case "i16":
			out := make(standard.I16Value, len(vals))
			for i, v := range vals {
				out[i] = int16(v)
			}
			return out, nil
		case "i32":
			out := make(standard.I32Value, len(vals))
			for i, v := range vals {
				out[i] = int32(v)
			}
			return out, nil
		default:
			return standard.I64Value(vals), nil
		}
	case "u8", "u16", "u32", "u64":
		bits := intBits(valueType)
		vals := make([]uint64, len(args))
		for i, a := range args {
			v, err := strconv.ParseUint(a, 0, bits)
			if err != nil {
				return nil, fmt.Errorf("parse %s %q: %w", valueType, a, err)
			}
			vals[i] = v
		}
		switch valueType {
		case "u8":
			out := make(standard.U8Value, len(vals))
			for i, v := range vals {
				out[i] = uint8(v)
			}
			return out, nil
		case "u16":
			out := make(standard.U16Value, len(vals))
			for i, v := range vals {
				out[i] = uint16(v)
			}
			return out, nil
		case "u32":
			out := make(standard.U32Value, len(vals))
			for i, v := range vals {
				out[i] = uint32(v)
			}
			return out, nil
		default:
			return standard.U64Value(vals), nil
		}
	case "f32":
		out := make(standard.F32Value, len(args))
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return nil, fmt.Errorf("parse f32 %q: %w", a, err)
			}
			out[i] = float32(v)
		}
		return out, nil
	case "f64":
		out := make(standard.F64Value, len(args))
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("parse f64 %q: %w", a, err)
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", valueType)
	}
}

func intBits(valueType string) int {
	switch valueType[1:] {
	case "8":
		return 8
	case "16":
		return 16
	case "32":
		return 32
	default:
		return 64
	}
}

// formatValue renders a register value for terminal output.
func formatValue(v standard.RegisterValue) string {
	switch v := v.(type) {
	case nil, standard.EmptyValue:
		return "(empty)"
	case standard.StringValue:
		return strconv.Quote(string(v))
	case standard.UnstructuredValue:
		return hex.EncodeToString(v)
	case standard.BooleanValue:
		return joinAll(len(v), func(i int) string { return strconv.FormatBool(v[i]) })
	case standard.I8Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatInt(int64(v[i]), 10) })
	case standard.I16Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatInt(int64(v[i]), 10) })
	case standard.I32Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatInt(int64(v[i]), 10) })
	case standard.I64Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatInt(v[i], 10) })
	case standard.U8Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatUint(uint64(v[i]), 10) })
	case standard.U16Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatUint(uint64(v[i]), 10) })
	case standard.U32Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatUint(uint64(v[i]), 10) })
	case standard.U64Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatUint(v[i], 10) })
	case standard.F32Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatFloat(float64(v[i]), 'g', -1, 32) })
	case standard.F64Value:
		return joinAll(len(v), func(i int) string { return strconv.FormatFloat(v[i], 'g', -1, 64) })
	default:
		return fmt.Sprintf("(tag %d)", v.Tag())
	}
}

func joinAll(n int, render func(int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = render(i)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
