package tensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

type tensorRecord struct {
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// EncodeTensors writes a named tensor set to w as indented JSON.
func EncodeTensors(w io.Writer, tensors map[string]*Tensor) error {
	if len(tensors) == 0 {
		return errors.New("EncodeTensors requires at least one tensor")
	}
	records := make(map[string]tensorRecord, len(tensors))
	for name, t := range tensors {
		if t == nil {
			return fmt.Errorf("tensor %s: %w", name, ErrNilTensor)
		}
		records[name] = tensorRecord{Shape: t.Shape(), Data: t.Data()}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// DecodeTensors reads a tensor set written by EncodeTensors.
func DecodeTensors(r io.Reader) (map[string]*Tensor, error) {
	records := make(map[string]tensorRecord)
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	result := make(map[string]*Tensor, len(records))
	for name, rec := range records {
		if len(rec.Shape) == 0 {
			return nil, fmt.Errorf("tensor %s missing shape", name)
		}
		t, err := New(rec.Data, rec.Shape...)
		if err != nil {
			return nil, fmt.Errorf("tensor %s: %w", name, err)
		}
		result[name] = t
	}
	return result, nil
}

// SaveTensors serializes a named tensor set to disk using JSON.
func SaveTensors(path string, tensors map[string]*Tensor) (err error) {
	if len(tensors) == 0 {
		return errors.New("SaveTensors requires at least one tensor")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeTensors(file, tensors)
}

// LoadTensors deserializes tensors saved with SaveTensors.
func LoadTensors(path string) (map[string]*Tensor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return DecodeTensors(file)
}
