package app

// FunctionCode is the application layer function code, carried as the
// second byte of every fragment.
type FunctionCode byte

const (
	FuncConfirm             FunctionCode = 0x00
	FuncRead                FunctionCode = 0x01
	FuncWrite                FunctionCode = 0x02
	FuncSelect              FunctionCode = 0x03
	FuncOperate             FunctionCode = 0x04
	FuncDirectOperate       FunctionCode = 0x05
	FuncDirectOperateNoAck  FunctionCode = 0x06
	FuncColdRestart         FunctionCode = 0x0D
	FuncWarmRestart         FunctionCode = 0x0E
	FuncEnableUnsolicited   FunctionCode = 0x14
	FuncDisableUnsolicited  FunctionCode = 0x15
	FuncResponse            FunctionCode = 0x81
	FuncUnsolicitedResponse FunctionCode = 0x82
)

func (f FunctionCode) String() string {
	switch f {
	case FuncConfirm:
		return "CONFIRM"
	case FuncRead:
		return "READ"
	case FuncWrite:
		return "WRITE"
	case FuncSelect:
		return "SELECT"
	case FuncOperate:
		return "OPERATE"
	case FuncDirectOperate:
		return "DIRECT_OPERATE"
	case FuncDirectOperateNoAck:
		return "DIRECT_OPERATE_NO_ACK"
	case FuncColdRestart:
		return "COLD_RESTART"
	case FuncWarmRestart:
		return "WARM_RESTART"
	case FuncEnableUnsolicited:
		return "ENABLE_UNSOLICITED_RESPONSES"
	case FuncDisableUnsolicited:
		return "DISABLE_UNSOLICITED_RESPONSES"
	case FuncResponse:
		return "RESPONSE"
	case FuncUnsolicitedResponse:
		return "UNSOLICITED_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
