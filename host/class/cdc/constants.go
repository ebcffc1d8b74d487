package cdc

import "fmt"

// CDC Class codes.
const (
	ClassCDC     = 0x02 // Communications Device Class
	ClassCDCData = 0x0A // CDC Data Class
)

// CDC Class-specific descriptor types.
const (
	DescriptorTypeCSInterface = 0x24 // Class-specific Interface
	DescriptorTypeCSEndpoint  = 0x25 // Class-specific Endpoint
)

// DescriptorSubtype identifies a CDC functional descriptor (bDescriptorSubtype).
type DescriptorSubtype uint8

// CDC Functional Descriptor subtypes (CDC 1.2, Table 13).
const (
	SubtypeHeader             DescriptorSubtype = 0x00 // Header Functional Descriptor
	SubtypeCallManagement     DescriptorSubtype = 0x01 // Call Management Functional Descriptor
	SubtypeACM                DescriptorSubtype = 0x02 // Abstract Control Management Functional Descriptor
	SubtypeDLM                DescriptorSubtype = 0x03 // Direct Line Management Functional Descriptor
	SubtypeTelephoneRinger    DescriptorSubtype = 0x04 // Telephone Ringer Functional Descriptor
	SubtypeTelephoneCallState DescriptorSubtype = 0x05 // Telephone Call and Line State Reporting Capabilities
	SubtypeUnion              DescriptorSubtype = 0x06 // Union Functional Descriptor
	SubtypeCountrySelection   DescriptorSubtype = 0x07 // Country Selection Functional Descriptor
	SubtypeTelephoneOpModes   DescriptorSubtype = 0x08 // Telephone Operational Modes Functional Descriptor
	SubtypeUSBTerminal        DescriptorSubtype = 0x09 // USB Terminal Functional Descriptor
	SubtypeNetworkChannel     DescriptorSubtype = 0x0A // Network Channel Terminal Functional Descriptor
	SubtypeProtocolUnit       DescriptorSubtype = 0x0B // Protocol Unit Functional Descriptor
	SubtypeExtensionUnit      DescriptorSubtype = 0x0C // Extension Unit Functional Descriptor
	SubtypeMultiChannel       DescriptorSubtype = 0x0D // Multi-Channel Management Functional Descriptor
	SubtypeCAPI               DescriptorSubtype = 0x0E // CAPI Control Management Functional Descriptor
	SubtypeEthernet           DescriptorSubtype = 0x0F // Ethernet Networking Functional Descriptor
	SubtypeATM                DescriptorSubtype = 0x10 // ATM Networking Functional Descriptor
	SubtypeWirelessHandset    DescriptorSubtype = 0x11 // Wireless Handset Control Model Functional Descriptor
	SubtypeMDLM               DescriptorSubtype = 0x12 // Mobile Direct Line Model Functional Descriptor
	SubtypeMDLMDetail         DescriptorSubtype = 0x13 // MDLM Detail Functional Descriptor
	SubtypeDeviceManagement   DescriptorSubtype = 0x14 // Device Management Model Functional Descriptor
	SubtypeOBEX               DescriptorSubtype = 0x15 // OBEX Functional Descriptor
	SubtypeCommandSet         DescriptorSubtype = 0x16 // Command Set Functional Descriptor
	SubtypeCommandSetDetail   DescriptorSubtype = 0x17 // Command Set Detail Functional Descriptor
	SubtypeTelephoneControl   DescriptorSubtype = 0x18 // Telephone Control Model Functional Descriptor
	SubtypeOBEXService        DescriptorSubtype = 0x19 // OBEX Service Identifier Functional Descriptor
	SubtypeNCM                DescriptorSubtype = 0x1A // NCM Functional Descriptor
)

var subtypeNames = [...]string{
	SubtypeHeader:             "Header",
	SubtypeCallManagement:     "Call Management",
	SubtypeACM:                "ACM",
	SubtypeDLM:                "DLM",
	SubtypeTelephoneRinger:    "Telephone Ringer",
	SubtypeTelephoneCallState: "Telephone Call State",
	SubtypeUnion:              "Union",
	SubtypeCountrySelection:   "Country Selection",
	SubtypeTelephoneOpModes:   "Telephone Operational Modes",
	SubtypeUSBTerminal:        "USB Terminal",
	SubtypeNetworkChannel:     "Network Channel Terminal",
	SubtypeProtocolUnit:       "Protocol Unit",
	SubtypeExtensionUnit:      "Extension Unit",
	SubtypeMultiChannel:       "Multi-Channel Management",
	SubtypeCAPI:               "CAPI Control",
	SubtypeEthernet:           "Ethernet Networking",
	SubtypeATM:                "ATM Networking",
	SubtypeWirelessHandset:    "Wireless Handset Control",
	SubtypeMDLM:               "MDLM",
	SubtypeMDLMDetail:         "MDLM Detail",
	SubtypeDeviceManagement:   "Device Management",
	SubtypeOBEX:               "OBEX",
	SubtypeCommandSet:         "Command Set",
	SubtypeCommandSetDetail:   "Command Set Detail",
	SubtypeTelephoneControl:   "Telephone Control",
	SubtypeOBEXService:        "OBEX Service Identifier",
	SubtypeNCM:                "NCM",
}

// String returns the descriptor subtype name.
func (s DescriptorSubtype) String() string {
	if int(s) < len(subtypeNames) {
		return subtypeNames[s]
	}
	return fmt.Sprintf("Unknown Subtype (0x%02x)", uint8(s))
}

// Subclass is a CDC communications interface subclass code (CDC 1.2, Table 4).
type Subclass uint8

// CDC Subclass codes.
const (
	SubclassNone             Subclass = 0x00 // No subclass
	SubclassDLCM             Subclass = 0x01 // Direct Line Control Model
	SubclassACM              Subclass = 0x02 // Abstract Control Model
	SubclassTCM              Subclass = 0x03 // Telephone Control Model
	SubclassMCCM             Subclass = 0x04 // Multi-Channel Control Model
	SubclassCAPI             Subclass = 0x05 // CAPI Control Model
	SubclassECM              Subclass = 0x06 // Ethernet Networking Control Model
	SubclassATM              Subclass = 0x07 // ATM Networking Control Model
	SubclassWirelessHandset  Subclass = 0x08 // Wireless Handset Control Model
	SubclassDeviceManagement Subclass = 0x09 // Device Management
	SubclassMDLM             Subclass = 0x0A // Mobile Direct Line Model
	SubclassOBEX             Subclass = 0x0B // OBEX
	SubclassEEM              Subclass = 0x0C // Ethernet Emulation Model
	SubclassNCM              Subclass = 0x0D // Network Control Model
)

// CommProtocol is a communications interface protocol code (CDC 1.2, Table 5).
type CommProtocol uint8

// CDC communications protocol codes.
const (
	ProtocolNone     CommProtocol = 0x00 // No class specific protocol required
	ProtocolV250     CommProtocol = 0x01 // AT Commands: V.250 etc
	ProtocolPCCA101  CommProtocol = 0x02 // AT Commands defined by PCCA-101
	ProtocolPCCA101O CommProtocol = 0x03 // AT Commands defined by PCCA-101 & Annex O
	ProtocolGSM      CommProtocol = 0x04 // AT Commands defined by GSM 07.07
	Protocol3GPP     CommProtocol = 0x05 // AT Commands defined by 3GPP 27.007
	ProtocolTIA      CommProtocol = 0x06 // AT Commands defined by TIA for CDMA
	ProtocolEEM      CommProtocol = 0x07 // Ethernet Emulation Model
	ProtocolExternal CommProtocol = 0xFE // Defined by Command Set Functional Descriptor
	ProtocolVendor   CommProtocol = 0xFF // Vendor-specific
)

// DataProtocol is a data interface protocol code (CDC 1.2, Table 7).
type DataProtocol uint8

// CDC data protocol codes.
const (
	DataProtocolNone   DataProtocol = 0x00 // No class specific protocol required
	DataProtocolNTB    DataProtocol = 0x01 // Network Transfer Block
	DataProtocolI430   DataProtocol = 0x30 // Physical interface protocol for ISDN BRI
	DataProtocolHDLC   DataProtocol = 0x31 // HDLC
	DataProtocolQ921M  DataProtocol = 0x50 // Management protocol for Q.921 data link protocol
	DataProtocolQ921   DataProtocol = 0x51 // Data link protocol for Q.931
	DataProtocolQ921TM DataProtocol = 0x52 // TEI-multiplexor for Q.921 data link protocol
	DataProtocolV42BIS DataProtocol = 0x90 // Data compression procedures
	DataProtocolQ931   DataProtocol = 0x91 // Euro-ISDN protocol control
	DataProtocolV120   DataProtocol = 0x92 // V.24 rate adaptation to ISDN
	DataProtocolCAPI   DataProtocol = 0x93 // CAPI Commands
	DataProtocolVendor DataProtocol = 0xFF // Vendor-specific
)

// RequestCode is a CDC class-specific request code (CDC 1.2, Table 19).
type RequestCode uint8

// CDC Request codes.
const (
	RequestSendEncapsulatedCommand    RequestCode = 0x00
	RequestGetEncapsulatedResponse    RequestCode = 0x01
	RequestSetCommFeature             RequestCode = 0x02
	RequestGetCommFeature             RequestCode = 0x03
	RequestClearCommFeature           RequestCode = 0x04
	RequestSetAuxLineState            RequestCode = 0x10
	RequestSetHookState               RequestCode = 0x11
	RequestPulseSetup                 RequestCode = 0x12
	RequestSendPulse                  RequestCode = 0x13
	RequestSetPulseTime               RequestCode = 0x14
	RequestRingAuxJack                RequestCode = 0x15
	RequestSetLineCoding              RequestCode = 0x20
	RequestGetLineCoding              RequestCode = 0x21
	RequestSetControlLineState        RequestCode = 0x22
	RequestSendBreak                  RequestCode = 0x23
	RequestSetRingerParms             RequestCode = 0x30
	RequestGetRingerParms             RequestCode = 0x31
	RequestSetOperationParms          RequestCode = 0x32
	RequestGetOperationParms          RequestCode = 0x33
	RequestSetLineParms               RequestCode = 0x34
	RequestGetLineParms               RequestCode = 0x35
	RequestDialDigits                 RequestCode = 0x36
	RequestSetUnitParameter           RequestCode = 0x37
	RequestGetUnitParameter           RequestCode = 0x38
	RequestClearUnitParameter         RequestCode = 0x39
	RequestGetProfile                 RequestCode = 0x3A
	RequestSetEthernetMulticastFilter RequestCode = 0x40
	RequestSetEthernetPMPatternFilter RequestCode = 0x41
	RequestGetEthernetPMPatternFilter RequestCode = 0x42
	RequestSetEthernetPacketFilter    RequestCode = 0x43
	RequestGetEthernetStatistic       RequestCode = 0x44
	RequestSetATMDataFormat           RequestCode = 0x50
	RequestGetATMDeviceStatistics     RequestCode = 0x51
	RequestSetATMDefaultVC            RequestCode = 0x52
	RequestGetATMVCStatistics         RequestCode = 0x53
	RequestGetNTBParameters           RequestCode = 0x80
	RequestGetNetAddress              RequestCode = 0x81
	RequestSetNetAddress              RequestCode = 0x82
	RequestGetNTBFormat               RequestCode = 0x83
	RequestSetNTBFormat               RequestCode = 0x84
	RequestGetNTBInputSize            RequestCode = 0x85
	RequestSetNTBInputSize            RequestCode = 0x86
	RequestGetMaxDatagramSize         RequestCode = 0x87
	RequestSetMaxDatagramSize         RequestCode = 0x88
	RequestGetCRCMode                 RequestCode = 0x89
	RequestSetCRCMode                 RequestCode = 0x8A
)

// NotificationCode is a CDC notification code (CDC 1.2, Table 20).
type NotificationCode uint8

// CDC Notification codes.
const (
	NotificationNetworkConnection     NotificationCode = 0x00
	NotificationResponseAvailable     NotificationCode = 0x01
	NotificationAuxJackHookState      NotificationCode = 0x08
	NotificationRingDetect            NotificationCode = 0x09
	NotificationSerialState           NotificationCode = 0x20
	NotificationCallStateChange       NotificationCode = 0x28
	NotificationLineStateChange       NotificationCode = 0x29
	NotificationConnectionSpeedChange NotificationCode = 0x2A
)

// String returns the notification name.
func (c NotificationCode) String() string {
	switch c {
	case NotificationNetworkConnection:
		return "NETWORK_CONNECTION"
	case NotificationResponseAvailable:
		return "RESPONSE_AVAILABLE"
	case NotificationAuxJackHookState:
		return "AUX_JACK_HOOK_STATE"
	case NotificationRingDetect:
		return "RING_DETECT"
	case NotificationSerialState:
		return "SERIAL_STATE"
	case NotificationCallStateChange:
		return "CALL_STATE_CHANGE"
	case NotificationLineStateChange:
		return "LINE_STATE_CHANGE"
	case NotificationConnectionSpeedChange:
		return "CONNECTION_SPEED_CHANGE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(c))
	}
}

// Control line state bits (SET_CONTROL_LINE_STATE wValue).
const (
	ControlLineDTR = 1 << 0 // Data Terminal Ready
	ControlLineRTS = 1 << 1 // Request To Send
)
