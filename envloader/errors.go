package envloader

import (
	"fmt"
	"reflect"
)

// InvalidConfigError é retornado quando Load recebe um argumento que não é
// um ponteiro para struct.
type InvalidConfigError struct {
	// Value é o tipo refletido que foi fornecido.
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	if e.Value.Kind() != reflect.Ptr {
		return fmt.Sprintf("envloader: config must be a pointer to struct, got %s", e.Value.Kind())
	}
	return fmt.Sprintf("envloader: config must be a pointer to struct, got pointer to %s", e.Value.Elem().Kind())
}

// FieldError é retornado quando ocorre um erro ao definir o valor de um campo
// específico da struct. Encapsula o erro original de conversão (strconv).
type FieldError struct {
	// FieldName é o nome do campo da struct (ex: "Port").
	FieldName string
	// EnvVar é o nome da variável de ambiente (ex: "PORT").
	EnvVar string
	// Value é o valor bruto que causou o erro (ex: "abc").
	Value string
	// Err é o erro original encapsulado.
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("envloader: error setting field %s from env %s=%s: %v",
		e.FieldName, e.EnvVar, e.Value, e.Err)
}

// Unwrap retorna o erro original, permitindo o uso de errors.Is/As.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado quando o tipo do campo da struct
// (ex: map, slice, interface) não possui conversão suportada.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s", e.Type)
}
