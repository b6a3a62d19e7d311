// Package geo 加载州边界 GeoJSON，并按州代码建立索引
package geo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"saldo/internal/location"
)

// 属性中可能承载州代码的字段名
var codeProperties = []string{"sigla", "SIGLA", "uf", "UF", "sigla_uf"}

type featureCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type feature struct {
	ID         any            `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Boundaries 州边界数据
type Boundaries struct {
	raw      []byte
	features map[string]json.RawMessage
}

// LoadFile 从文件加载
func LoadFile(path string) (*Boundaries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geojson: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load 解析 FeatureCollection；每个 Feature 需通过 id 或 properties.sigla 提供州代码
func Load(r io.Reader) (*Boundaries, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson: %w", err)
	}

	var fc featureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("geojson: expected FeatureCollection, got %q", fc.Type)
	}

	b := &Boundaries{
		raw:      raw,
		features: make(map[string]json.RawMessage, len(fc.Features)),
	}
	for i, rawFeature := range fc.Features {
		var ft feature
		if err := json.Unmarshal(rawFeature, &ft); err != nil {
			return nil, fmt.Errorf("geojson feature %d: %w", i, err)
		}
		code := featureCode(ft)
		if code == "" {
			return nil, fmt.Errorf("geojson feature %d: no state code in id or properties", i)
		}
		if !location.IsStateCode(code) {
			return nil, fmt.Errorf("geojson feature %d: unknown state code %q", i, code)
		}
		if _, dup := b.features[code]; dup {
			return nil, fmt.Errorf("geojson feature %d: duplicate state code %q", i, code)
		}
		b.features[code] = rawFeature
	}

	return b, nil
}

func featureCode(ft feature) string {
	if s, ok := ft.ID.(string); ok && strings.TrimSpace(s) != "" {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	for _, key := range codeProperties {
		if s, ok := ft.Properties[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.ToUpper(strings.TrimSpace(s))
		}
	}
	return ""
}

// Raw 原始 GeoJSON（原样返回给前端）
func (b *Boundaries) Raw() []byte {
	return b.raw
}

// Feature 单个州的 Feature
func (b *Boundaries) Feature(code string) (json.RawMessage, bool) {
	f, ok := b.features[code]
	return f, ok
}

// Codes 已有边界的州代码
func (b *Boundaries) Codes() []string {
	codes := make([]string, 0, len(b.features))
	for code := range b.features {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Missing 返回没有边界数据的州代码
func (b *Boundaries) Missing(codes []string) []string {
	var out []string
	for _, code := range codes {
		if _, ok := b.features[code]; !ok {
			out = append(out, code)
		}
	}
	return out
}
