package dcf

import "testing"

func TestOrderedObject(t *testing.T) {
	tests := []struct {
		name  string
		build func(o *orderedObject)
		want  string
	}{
		{"empty", func(o *orderedObject) {}, `{}`},
		{"insertion order", func(o *orderedObject) {
			o.Field("year", 1)
			o.Field("gross_rent", A(20000))
			o.Field("noi", "x")
		}, `{"year":1,"gross_rent":20000.00,"noi":"x"}`},
		{"conditional", func(o *orderedObject) {
			o.Field("a", 0)
			o.FieldIf(false, "b", 1)
			o.FieldIf(true, "c", A(0))
		}, `{"a":0,"c":0.00}`},
		{"escaped key", func(o *orderedObject) { o.Field(`a"b`, true) }, `{"a\"b":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o orderedObject
			tt.build(&o)
			got, err := o.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOrderedObject_StickyError(t *testing.T) {
	var o orderedObject
	o.Field("a", func() {})
	o.Field("b", 1)
	if _, err := o.MarshalJSON(); err == nil {
		t.Error("MarshalJSON() expected an error for an unsupported value")
	}
}
