package capdl

import (
	"fmt"
	"strings"
)

// ObjectType names a seL4 kernel object kind as understood by capDL.
type ObjectType string

// Kernel object identifiers available to templates.
const (
	EndpointObject        ObjectType = "seL4_EndpointObject"
	NotificationObject    ObjectType = "seL4_NotificationObject"
	TCBObject             ObjectType = "seL4_TCBObject"
	ARMSmallPageObject    ObjectType = "seL4_ARM_SmallPageObject"
	ARMSectionObject      ObjectType = "seL4_ARM_SectionObject"
	ARMSuperSectionObject ObjectType = "seL4_ARM_SuperSectionObject"
	FrameObject           ObjectType = "seL4_FrameObject"
	UntypedObject         ObjectType = "seL4_UntypedObject"
	IA32IOPort            ObjectType = "seL4_IA32_IOPort"
	IA32IOSpace           ObjectType = "seL4_IA32_IOSpace"
	ARMIOSpace            ObjectType = "seL4_ARM_IOSpace"
	SchedContextObject    ObjectType = "seL4_SchedContextObject"
	SchedControl          ObjectType = "seL4_SchedControl"
	RTReplyObject         ObjectType = "seL4_RTReplyObject"
	ASIDPool              ObjectType = "seL4_ASID_Pool"
	IRQControl            ObjectType = "seL4_IRQControl"
)

var objectTypes = []ObjectType{
	EndpointObject,
	NotificationObject,
	TCBObject,
	ARMSmallPageObject,
	ARMSectionObject,
	ARMSuperSectionObject,
	FrameObject,
	UntypedObject,
	IA32IOPort,
	IA32IOSpace,
	ARMIOSpace,
	SchedContextObject,
	SchedControl,
	RTReplyObject,
	ASIDPool,
	IRQControl,
}

// ObjectTypes returns every known object identifier in declaration order.
func ObjectTypes() []ObjectType {
	return append([]ObjectType(nil), objectTypes...)
}

// Valid reports whether t is one of the known identifiers.
func (t ObjectType) Valid() bool {
	for _, known := range objectTypes {
		if known == t {
			return true
		}
	}
	return false
}

func (t ObjectType) String() string {
	return string(t)
}

// ParseObjectType resolves an identifier such as "seL4_TCBObject". The
// "seL4_" prefix is optional.
func ParseObjectType(raw string) (ObjectType, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("capdl: empty object type")
	}
	candidate := ObjectType(trimmed)
	if !strings.HasPrefix(trimmed, "seL4_") {
		candidate = ObjectType("seL4_" + trimmed)
	}
	if !candidate.Valid() {
		return "", fmt.Errorf("capdl: unknown object type %q", raw)
	}
	return candidate, nil
}
