package codec

// builtins lists the shipped codecs from least to most specific. Default
// registers them in this order; since Register moves each new codec to
// the front, the resulting dispatch order for FindFor is the reverse of
// this list: image, xml-document, ion-record, yaml-document, bundle,
// generic-tensor, default — most specific type claim first, the gob
// catch-all last.
var builtins = []Constructor{
	NewDefaultCodec,
	NewTensorCodec,
	NewBundleCodec,
	NewYAMLCodec,
	NewIonCodec,
	NewXMLCodec,
	NewImageCodec,
}

func init() {
	for _, ctor := range builtins {
		Default.Register(ctor())
	}
}
