package datatype

import "strconv"

// Standard adds the HLA MIM datatypes to b. Every FOM starts from these, so
// the loaders call it before resolving any module. It panics if b already
// holds one of the names, which only happens when it is called twice.
func Standard(b *Builder) {
	basic := func(name string, size int, e Endianness) Ref {
		return b.MustAdd(NewBasicType(name, size, e))
	}
	simple := func(name string, rep Ref) Ref {
		return b.MustAdd(NewSimpleType(name, rep))
	}
	enumerated := func(name string, rep Ref, enumerators ...Enumerator) Ref {
		return b.MustAdd(NewEnumeratedType(name, rep, enumerators...))
	}
	array := func(name string, element Ref, dims ...Dimension) Ref {
		return b.MustAdd(NewArrayType(name, element, dims...))
	}
	field := func(name string, r Ref) Field {
		f, err := NewField(name, r)
		if err != nil {
			panic(err)
		}
		return f
	}
	record := func(name string, fields ...Field) Ref {
		return b.MustAdd(NewFixedRecordType(name, fields...))
	}

	basic("HLAinteger16BE", 16, Big)
	int32BE := basic("HLAinteger32BE", 32, Big)
	int64BE := basic("HLAinteger64BE", 64, Big)
	basic("HLAfloat32BE", 32, Big)
	float64BE := basic("HLAfloat64BE", 64, Big)
	octetPairBE := basic("HLAoctetPairBE", 16, Big)
	basic("HLAinteger16LE", 16, Little)
	basic("HLAinteger32LE", 32, Little)
	basic("HLAinteger64LE", 64, Little)
	basic("HLAfloat32LE", 32, Little)
	basic("HLAfloat64LE", 64, Little)
	basic("HLAoctetPairLE", 16, Little)
	octet := basic("HLAoctet", 8, Big)

	asciiChar := simple("HLAASCIIchar", octet)
	unicodeChar := simple("HLAunicodeChar", octetPairBE)
	byteType := simple("HLAbyte", octet)
	count := simple("HLAcount", int32BE)
	simple("HLAseconds", int32BE)
	simple("HLAmsec", int32BE)
	simple("HLAnormalizedFederateHandle", int32BE)
	simple("HLAindex", int32BE)
	simple("HLAinteger64Time", int64BE)
	simple("HLAfloat64Time", float64BE)

	boolean := enumerated("HLAboolean", int32BE, Sequential("HLAfalse", "HLAtrue")...)
	enumerated("HLAfederateState", int32BE,
		NewEnumerator("ActiveFederate", "1"),
		NewEnumerator("FederateSaveInProgress", "3"),
		NewEnumerator("FederateRestoreInProgress", "5"))
	enumerated("HLAtimeState", int32BE, Sequential("TimeGranted", "TimeAdvancing")...)
	enumerated("HLAownership", int32BE, Sequential("Unowned", "Owned")...)
	enumerated("HLAresignAction", int32BE,
		NewEnumerator("DivestOwnership", "1"),
		NewEnumerator("DeleteObjectInstances", "2"),
		NewEnumerator("CancelPendingAcquisitions", "3"),
		NewEnumerator("DeleteObjectInstancesThenDivestOwnership", "4"),
		NewEnumerator("CancelPendingAcquisitionsThenDeleteObjectInstancesThenDivestOwnership", "5"),
		NewEnumerator("NoAction", "6"))
	enumerated("HLAorderType", int32BE, Sequential("Receive", "TimeStamp")...)
	enumerated("HLAswitch", int32BE, Sequential("Disabled", "Enabled")...)
	synchPointStatus := enumerated("HLAsynchPointStatus", int32BE, Sequential(
		"NoActivity",
		"AttemptingToRegisterSynchPoint",
		"MovingToSynchPoint",
		"WaitingForRestOfFederation")...)
	enumerated("HLAnormalizedServiceGroup", int32BE, Sequential(
		"FederationManagement",
		"DeclarationManagement",
		"ObjectManagement",
		"OwnershipManagement",
		"TimeManagement",
		"DataDistributionManagement",
		"SupportServices")...)

	handle := array("HLAhandle", byteType)
	unicodeString := array("HLAunicodeString", unicodeChar)
	interactionSubscription := record("HLAinteractionSubscription",
		field("HLAinteractionClass", handle),
		field("HLAactive", boolean))
	objectClassBasedCount := record("HLAobjectClassBasedCount",
		field("HLAobjectClass", handle),
		field("HLAcount", count))
	interactionCount := record("HLAinteractionCount",
		field("HLAinteractionClass", handle),
		field("HLAinteractionCount", count))
	synchPointFederate := record("HLAsynchPointFederate",
		field("HLAfederate", handle),
		field("HLAfederateSynchStatus", synchPointStatus))

	array("HLAASCIIstring", asciiChar)
	array("HLAopaqueData", byteType)
	array("HLAtoken", byteType, Dimension{lower: 0, upper: 0})
	array("HLAtransportationName", unicodeChar)
	array("HLAupdateRateName", unicodeChar)
	array("HLAlogicalTime", byteType)
	array("HLAtimeInterval", byteType)
	array("HLAhandleList", handle)
	array("HLAinteractionSubList", interactionSubscription)
	array("HLAargumentList", unicodeString)
	array("HLAobjectClassBasedCounts", objectClassBasedCount)
	array("HLAinteractionCounts", interactionCount)
	array("HLAsynchPointList", unicodeString)
	array("HLAsynchPointFederateList", synchPointFederate)
	array("HLAmoduleDesignatorList", unicodeString)
}

// Sequential builds enumerators whose values count up from 0 in order.
func Sequential(names ...string) []Enumerator {
	out := make([]Enumerator, len(names))
	for i, n := range names {
		out[i] = NewEnumerator(n, strconv.Itoa(i))
	}
	return out
}

// StandardModel returns a model holding only NA and the MIM datatypes.
func StandardModel() *Model {
	b := NewBuilder()
	Standard(b)
	return b.Build()
}
