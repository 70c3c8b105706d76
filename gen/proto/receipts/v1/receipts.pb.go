// Code generated by protoc-gen-go. DO NOT EDIT.
// versions:
// 	protoc-gen-go v1.36.7
// 	protoc        (unknown)
// source: receipts/v1/receipts.proto

package receiptsv1

import (
	protoreflect "google.golang.org/protobuf/reflect/protoreflect"
	protoimpl "google.golang.org/protobuf/runtime/protoimpl"
	reflect "reflect"
	sync "sync"
	unsafe "unsafe"
)

const (
	// Verify that this generated code is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(20 - protoimpl.MinVersion)
	// Verify that runtime/protoimpl is sufficiently up-to-date.
	_ = protoimpl.EnforceVersion(protoimpl.MaxVersion - 20)
)

type ReceiptItem struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Id            string                 `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	Name          string                 `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Quantity      int32                  `protobuf:"varint,3,opt,name=quantity,proto3" json:"quantity,omitempty"`
	UnitPrice     string                 `protobuf:"bytes,4,opt,name=unit_price,json=unitPrice,proto3" json:"unit_price,omitempty"` // decimal string, 2 places
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ReceiptItem) Reset() {
	*x = ReceiptItem{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[0]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ReceiptItem) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ReceiptItem) ProtoMessage() {}

func (x *ReceiptItem) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[0]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ReceiptItem.ProtoReflect.Descriptor instead.
func (*ReceiptItem) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{0}
}

func (x *ReceiptItem) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *ReceiptItem) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *ReceiptItem) GetQuantity() int32 {
	if x != nil {
		return x.Quantity
	}
	return 0
}

func (x *ReceiptItem) GetUnitPrice() string {
	if x != nil {
		return x.UnitPrice
	}
	return ""
}

type Receipt struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Id            string                 `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	StoreName     string                 `protobuf:"bytes,2,opt,name=store_name,json=storeName,proto3" json:"store_name,omitempty"`
	PurchaseDate  string                 `protobuf:"bytes,3,opt,name=purchase_date,json=purchaseDate,proto3" json:"purchase_date,omitempty"` // YYYY-MM-DD
	DateFound     bool                   `protobuf:"varint,4,opt,name=date_found,json=dateFound,proto3" json:"date_found,omitempty"`         // false when substituted from upload time
	TotalAmount   string                 `protobuf:"bytes,5,opt,name=total_amount,json=totalAmount,proto3" json:"total_amount,omitempty"`    // decimal string, 2 places
	Items         []*ReceiptItem         `protobuf:"bytes,6,rep,name=items,proto3" json:"items,omitempty"`
	CreatedAt     string                 `protobuf:"bytes,7,opt,name=created_at,json=createdAt,proto3" json:"created_at,omitempty"` // RFC3339
	UpdatedAt     string                 `protobuf:"bytes,8,opt,name=updated_at,json=updatedAt,proto3" json:"updated_at,omitempty"` // RFC3339
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *Receipt) Reset() {
	*x = Receipt{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[1]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *Receipt) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*Receipt) ProtoMessage() {}

func (x *Receipt) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[1]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use Receipt.ProtoReflect.Descriptor instead.
func (*Receipt) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{1}
}

func (x *Receipt) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *Receipt) GetStoreName() string {
	if x != nil {
		return x.StoreName
	}
	return ""
}

func (x *Receipt) GetPurchaseDate() string {
	if x != nil {
		return x.PurchaseDate
	}
	return ""
}

func (x *Receipt) GetDateFound() bool {
	if x != nil {
		return x.DateFound
	}
	return false
}

func (x *Receipt) GetTotalAmount() string {
	if x != nil {
		return x.TotalAmount
	}
	return ""
}

func (x *Receipt) GetItems() []*ReceiptItem {
	if x != nil {
		return x.Items
	}
	return nil
}

func (x *Receipt) GetCreatedAt() string {
	if x != nil {
		return x.CreatedAt
	}
	return ""
}

func (x *Receipt) GetUpdatedAt() string {
	if x != nil {
		return x.UpdatedAt
	}
	return ""
}

type IngestFileRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Path          string                 `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *IngestFileRequest) Reset() {
	*x = IngestFileRequest{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[2]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *IngestFileRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*IngestFileRequest) ProtoMessage() {}

func (x *IngestFileRequest) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[2]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use IngestFileRequest.ProtoReflect.Descriptor instead.
func (*IngestFileRequest) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{2}
}

func (x *IngestFileRequest) GetPath() string {
	if x != nil {
		return x.Path
	}
	return ""
}

type IngestFileResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	FileId        string                 `protobuf:"bytes,1,opt,name=file_id,json=fileId,proto3" json:"file_id,omitempty"`
	Deduplicated  bool                   `protobuf:"varint,2,opt,name=deduplicated,proto3" json:"deduplicated,omitempty"`
	ContentHash   string                 `protobuf:"bytes,3,opt,name=content_hash,json=contentHash,proto3" json:"content_hash,omitempty"` // hex sha256
	JobId         string                 `protobuf:"bytes,4,opt,name=job_id,json=jobId,proto3" json:"job_id,omitempty"`                   // empty when processing is queued asynchronously
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *IngestFileResponse) Reset() {
	*x = IngestFileResponse{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[3]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *IngestFileResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*IngestFileResponse) ProtoMessage() {}

func (x *IngestFileResponse) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[3]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use IngestFileResponse.ProtoReflect.Descriptor instead.
func (*IngestFileResponse) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{3}
}

func (x *IngestFileResponse) GetFileId() string {
	if x != nil {
		return x.FileId
	}
	return ""
}

func (x *IngestFileResponse) GetDeduplicated() bool {
	if x != nil {
		return x.Deduplicated
	}
	return false
}

func (x *IngestFileResponse) GetContentHash() string {
	if x != nil {
		return x.ContentHash
	}
	return ""
}

func (x *IngestFileResponse) GetJobId() string {
	if x != nil {
		return x.JobId
	}
	return ""
}

type IngestDirectoryRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	RootPath      string                 `protobuf:"bytes,1,opt,name=root_path,json=rootPath,proto3" json:"root_path,omitempty"`
	SkipHidden    bool                   `protobuf:"varint,2,opt,name=skip_hidden,json=skipHidden,proto3" json:"skip_hidden,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *IngestDirectoryRequest) Reset() {
	*x = IngestDirectoryRequest{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[4]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *IngestDirectoryRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*IngestDirectoryRequest) ProtoMessage() {}

func (x *IngestDirectoryRequest) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[4]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use IngestDirectoryRequest.ProtoReflect.Descriptor instead.
func (*IngestDirectoryRequest) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{4}
}

func (x *IngestDirectoryRequest) GetRootPath() string {
	if x != nil {
		return x.RootPath
	}
	return ""
}

func (x *IngestDirectoryRequest) GetSkipHidden() bool {
	if x != nil {
		return x.SkipHidden
	}
	return false
}

type IngestDirectoryResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Files         []*IngestFileResponse  `protobuf:"bytes,1,rep,name=files,proto3" json:"files,omitempty"`
	Scanned       uint32                 `protobuf:"varint,2,opt,name=scanned,proto3" json:"scanned,omitempty"`
	Matched       uint32                 `protobuf:"varint,3,opt,name=matched,proto3" json:"matched,omitempty"`
	Succeeded     uint32                 `protobuf:"varint,4,opt,name=succeeded,proto3" json:"succeeded,omitempty"`
	Deduplicated  uint32                 `protobuf:"varint,5,opt,name=deduplicated,proto3" json:"deduplicated,omitempty"`
	Failed        uint32                 `protobuf:"varint,6,opt,name=failed,proto3" json:"failed,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *IngestDirectoryResponse) Reset() {
	*x = IngestDirectoryResponse{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[5]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *IngestDirectoryResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*IngestDirectoryResponse) ProtoMessage() {}

func (x *IngestDirectoryResponse) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[5]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use IngestDirectoryResponse.ProtoReflect.Descriptor instead.
func (*IngestDirectoryResponse) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{5}
}

func (x *IngestDirectoryResponse) GetFiles() []*IngestFileResponse {
	if x != nil {
		return x.Files
	}
	return nil
}

func (x *IngestDirectoryResponse) GetScanned() uint32 {
	if x != nil {
		return x.Scanned
	}
	return 0
}

func (x *IngestDirectoryResponse) GetMatched() uint32 {
	if x != nil {
		return x.Matched
	}
	return 0
}

func (x *IngestDirectoryResponse) GetSucceeded() uint32 {
	if x != nil {
		return x.Succeeded
	}
	return 0
}

func (x *IngestDirectoryResponse) GetDeduplicated() uint32 {
	if x != nil {
		return x.Deduplicated
	}
	return 0
}

func (x *IngestDirectoryResponse) GetFailed() uint32 {
	if x != nil {
		return x.Failed
	}
	return 0
}

type ListReceiptsRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	FromDate      string                 `protobuf:"bytes,1,opt,name=from_date,json=fromDate,proto3" json:"from_date,omitempty"` // YYYY-MM-DD, optional
	ToDate        string                 `protobuf:"bytes,2,opt,name=to_date,json=toDate,proto3" json:"to_date,omitempty"`       // YYYY-MM-DD, optional
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ListReceiptsRequest) Reset() {
	*x = ListReceiptsRequest{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[6]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ListReceiptsRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ListReceiptsRequest) ProtoMessage() {}

func (x *ListReceiptsRequest) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[6]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ListReceiptsRequest.ProtoReflect.Descriptor instead.
func (*ListReceiptsRequest) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{6}
}

func (x *ListReceiptsRequest) GetFromDate() string {
	if x != nil {
		return x.FromDate
	}
	return ""
}

func (x *ListReceiptsRequest) GetToDate() string {
	if x != nil {
		return x.ToDate
	}
	return ""
}

type ListReceiptsResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Receipts      []*Receipt             `protobuf:"bytes,1,rep,name=receipts,proto3" json:"receipts,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ListReceiptsResponse) Reset() {
	*x = ListReceiptsResponse{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[7]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ListReceiptsResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ListReceiptsResponse) ProtoMessage() {}

func (x *ListReceiptsResponse) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[7]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ListReceiptsResponse.ProtoReflect.Descriptor instead.
func (*ListReceiptsResponse) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{7}
}

func (x *ListReceiptsResponse) GetReceipts() []*Receipt {
	if x != nil {
		return x.Receipts
	}
	return nil
}

type GetReceiptRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Id            string                 `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *GetReceiptRequest) Reset() {
	*x = GetReceiptRequest{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[8]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *GetReceiptRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*GetReceiptRequest) ProtoMessage() {}

func (x *GetReceiptRequest) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[8]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use GetReceiptRequest.ProtoReflect.Descriptor instead.
func (*GetReceiptRequest) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{8}
}

func (x *GetReceiptRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type GetReceiptResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Receipt       *Receipt               `protobuf:"bytes,1,opt,name=receipt,proto3" json:"receipt,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *GetReceiptResponse) Reset() {
	*x = GetReceiptResponse{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[9]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *GetReceiptResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*GetReceiptResponse) ProtoMessage() {}

func (x *GetReceiptResponse) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[9]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use GetReceiptResponse.ProtoReflect.Descriptor instead.
func (*GetReceiptResponse) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{9}
}

func (x *GetReceiptResponse) GetReceipt() *Receipt {
	if x != nil {
		return x.Receipt
	}
	return nil
}

type ExportReceiptsRequest struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	FromDate      string                 `protobuf:"bytes,1,opt,name=from_date,json=fromDate,proto3" json:"from_date,omitempty"` // YYYY-MM-DD, optional
	ToDate        string                 `protobuf:"bytes,2,opt,name=to_date,json=toDate,proto3" json:"to_date,omitempty"`       // YYYY-MM-DD, optional
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ExportReceiptsRequest) Reset() {
	*x = ExportReceiptsRequest{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[10]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ExportReceiptsRequest) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ExportReceiptsRequest) ProtoMessage() {}

func (x *ExportReceiptsRequest) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[10]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ExportReceiptsRequest.ProtoReflect.Descriptor instead.
func (*ExportReceiptsRequest) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{10}
}

func (x *ExportReceiptsRequest) GetFromDate() string {
	if x != nil {
		return x.FromDate
	}
	return ""
}

func (x *ExportReceiptsRequest) GetToDate() string {
	if x != nil {
		return x.ToDate
	}
	return ""
}

type ExportReceiptsResponse struct {
	state         protoimpl.MessageState `protogen:"open.v1"`
	Xlsx          []byte                 `protobuf:"bytes,1,opt,name=xlsx,proto3" json:"xlsx,omitempty"`
	Filename      string                 `protobuf:"bytes,2,opt,name=filename,proto3" json:"filename,omitempty"`
	unknownFields protoimpl.UnknownFields
	sizeCache     protoimpl.SizeCache
}

func (x *ExportReceiptsResponse) Reset() {
	*x = ExportReceiptsResponse{}
	mi := &file_receipts_v1_receipts_proto_msgTypes[11]
	ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
	ms.StoreMessageInfo(mi)
}

func (x *ExportReceiptsResponse) String() string {
	return protoimpl.X.MessageStringOf(x)
}

func (*ExportReceiptsResponse) ProtoMessage() {}

func (x *ExportReceiptsResponse) ProtoReflect() protoreflect.Message {
	mi := &file_receipts_v1_receipts_proto_msgTypes[11]
	if x != nil {
		ms := protoimpl.X.MessageStateOf(protoimpl.Pointer(x))
		if ms.LoadMessageInfo() == nil {
			ms.StoreMessageInfo(mi)
		}
		return ms
	}
	return mi.MessageOf(x)
}

// Deprecated: Use ExportReceiptsResponse.ProtoReflect.Descriptor instead.
func (*ExportReceiptsResponse) Descriptor() ([]byte, []int) {
	return file_receipts_v1_receipts_proto_rawDescGZIP(), []int{11}
}

func (x *ExportReceiptsResponse) GetXlsx() []byte {
	if x != nil {
		return x.Xlsx
	}
	return nil
}

func (x *ExportReceiptsResponse) GetFilename() string {
	if x != nil {
		return x.Filename
	}
	return ""
}

var File_receipts_v1_receipts_proto protoreflect.FileDescriptor

const file_receipts_v1_receipts_proto_rawDesc = "" +
	"\n" +
	"\x1areceipts/v1/receipts.proto\x12\vreceipts.v1\"l\n" +
	"\vReceiptItem\x12\x0e\n" +
	"\x02id\x18\x01 \x01(\tR\x02id\x12\x12\n" +
	"\x04name\x18\x02 \x01(\tR\x04name\x12\x1a\n" +
	"\bquantity\x18\x03 \x01(\x05R\bquantity\x12\x1d\n" +
	"\n" +
	"unit_price\x18\x04 \x01(\tR\tunitPrice\"\x8d\x02\n" +
	"\aReceipt\x12\x0e\n" +
	"\x02id\x18\x01 \x01(\tR\x02id\x12\x1d\n" +
	"\n" +
	"store_name\x18\x02 \x01(\tR\tstoreName\x12#\n" +
	"\rpurchase_date\x18\x03 \x01(\tR\fpurchaseDate\x12\x1d\n" +
	"\n" +
	"date_found\x18\x04 \x01(\bR\tdateFound\x12!\n" +
	"\ftotal_amount\x18\x05 \x01(\tR\vtotalAmount\x12.\n" +
	"\x05items\x18\x06 \x03(\v2\x18.receipts.v1.ReceiptItemR\x05items\x12\x1d\n" +
	"\n" +
	"created_at\x18\a \x01(\tR\tcreatedAt\x12\x1d\n" +
	"\n" +
	"updated_at\x18\b \x01(\tR\tupdatedAt\"'\n" +
	"\x11IngestFileRequest\x12\x12\n" +
	"\x04path\x18\x01 \x01(\tR\x04path\"\x8b\x01\n" +
	"\x12IngestFileResponse\x12\x17\n" +
	"\afile_id\x18\x01 \x01(\tR\x06fileId\x12\"\n" +
	"\fdeduplicated\x18\x02 \x01(\bR\fdeduplicated\x12!\n" +
	"\fcontent_hash\x18\x03 \x01(\tR\vcontentHash\x12\x15\n" +
	"\x06job_id\x18\x04 \x01(\tR\x05jobId\"V\n" +
	"\x16IngestDirectoryRequest\x12\x1b\n" +
	"\troot_path\x18\x01 \x01(\tR\brootPath\x12\x1f\n" +
	"\vskip_hidden\x18\x02 \x01(\bR\n" +
	"skipHidden\"\xde\x01\n" +
	"\x17IngestDirectoryResponse\x125\n" +
	"\x05files\x18\x01 \x03(\v2\x1f.receipts.v1.IngestFileResponseR\x05files\x12\x18\n" +
	"\ascanned\x18\x02 \x01(\rR\ascanned\x12\x18\n" +
	"\amatched\x18\x03 \x01(\rR\amatched\x12\x1c\n" +
	"\tsucceeded\x18\x04 \x01(\rR\tsucceeded\x12\"\n" +
	"\fdeduplicated\x18\x05 \x01(\rR\fdeduplicated\x12\x16\n" +
	"\x06failed\x18\x06 \x01(\rR\x06failed\"K\n" +
	"\x13ListReceiptsRequest\x12\x1b\n" +
	"\tfrom_date\x18\x01 \x01(\tR\bfromDate\x12\x17\n" +
	"\ato_date\x18\x02 \x01(\tR\x06toDate\"H\n" +
	"\x14ListReceiptsResponse\x120\n" +
	"\breceipts\x18\x01 \x03(\v2\x14.receipts.v1.ReceiptR\breceipts\"#\n" +
	"\x11GetReceiptRequest\x12\x0e\n" +
	"\x02id\x18\x01 \x01(\tR\x02id\"D\n" +
	"\x12GetReceiptResponse\x12.\n" +
	"\areceipt\x18\x01 \x01(\v2\x14.receipts.v1.ReceiptR\areceipt\"M\n" +
	"\x15ExportReceiptsRequest\x12\x1b\n" +
	"\tfrom_date\x18\x01 \x01(\tR\bfromDate\x12\x17\n" +
	"\ato_date\x18\x02 \x01(\tR\x06toDate\"H\n" +
	"\x16ExportReceiptsResponse\x12\x12\n" +
	"\x04xlsx\x18\x01 \x01(\fR\x04xlsx\x12\x1a\n" +
	"\bfilename\x18\x02 \x01(\tR\bfilename2\xbf\x01\n" +
	"\x10IngestionService\x12M\n" +
	"\n" +
	"IngestFile\x12\x1e.receipts.v1.IngestFileRequest\x1a\x1f.receipts.v1.IngestFileResponse\x12\\\n" +
	"\x0fIngestDirectory\x12#.receipts.v1.IngestDirectoryRequest\x1a$.receipts.v1.IngestDirectoryResponse2\x90\x02\n" +
	"\x0fReceiptsService\x12S\n" +
	"\fListReceipts\x12 .receipts.v1.ListReceiptsRequest\x1a!.receipts.v1.ListReceiptsResponse\x12M\n" +
	"\n" +
	"GetReceipt\x12\x1e.receipts.v1.GetReceiptRequest\x1a\x1f.receipts.v1.GetReceiptResponse\x12Y\n" +
	"\x0eExportReceipts\x12\".receipts.v1.ExportReceiptsRequest\x1a#.receipts.v1.ExportReceiptsResponseB@Z>github.com/mtaiwo/receiptscan/gen/proto/receipts/v1;receiptsv1b\x06proto3"

var (
	file_receipts_v1_receipts_proto_rawDescOnce sync.Once
	file_receipts_v1_receipts_proto_rawDescData []byte
)

func file_receipts_v1_receipts_proto_rawDescGZIP() []byte {
	file_receipts_v1_receipts_proto_rawDescOnce.Do(func() {
		file_receipts_v1_receipts_proto_rawDescData = protoimpl.X.CompressGZIP(unsafe.Slice(unsafe.StringData(file_receipts_v1_receipts_proto_rawDesc), len(file_receipts_v1_receipts_proto_rawDesc)))
	})
	return file_receipts_v1_receipts_proto_rawDescData
}

var file_receipts_v1_receipts_proto_msgTypes = make([]protoimpl.MessageInfo, 12)
var file_receipts_v1_receipts_proto_goTypes = []any{
	(*ReceiptItem)(nil),             // 0: receipts.v1.ReceiptItem
	(*Receipt)(nil),                 // 1: receipts.v1.Receipt
	(*IngestFileRequest)(nil),       // 2: receipts.v1.IngestFileRequest
	(*IngestFileResponse)(nil),      // 3: receipts.v1.IngestFileResponse
	(*IngestDirectoryRequest)(nil),  // 4: receipts.v1.IngestDirectoryRequest
	(*IngestDirectoryResponse)(nil), // 5: receipts.v1.IngestDirectoryResponse
	(*ListReceiptsRequest)(nil),     // 6: receipts.v1.ListReceiptsRequest
	(*ListReceiptsResponse)(nil),    // 7: receipts.v1.ListReceiptsResponse
	(*GetReceiptRequest)(nil),       // 8: receipts.v1.GetReceiptRequest
	(*GetReceiptResponse)(nil),      // 9: receipts.v1.GetReceiptResponse
	(*ExportReceiptsRequest)(nil),   // 10: receipts.v1.ExportReceiptsRequest
	(*ExportReceiptsResponse)(nil),  // 11: receipts.v1.ExportReceiptsResponse
}
var file_receipts_v1_receipts_proto_depIdxs = []int32{
	0,  // 0: receipts.v1.Receipt.items:type_name -> receipts.v1.ReceiptItem
	3,  // 1: receipts.v1.IngestDirectoryResponse.files:type_name -> receipts.v1.IngestFileResponse
	1,  // 2: receipts.v1.ListReceiptsResponse.receipts:type_name -> receipts.v1.Receipt
	1,  // 3: receipts.v1.GetReceiptResponse.receipt:type_name -> receipts.v1.Receipt
	2,  // 4: receipts.v1.IngestionService.IngestFile:input_type -> receipts.v1.IngestFileRequest
	4,  // 5: receipts.v1.IngestionService.IngestDirectory:input_type -> receipts.v1.IngestDirectoryRequest
	6,  // 6: receipts.v1.ReceiptsService.ListReceipts:input_type -> receipts.v1.ListReceiptsRequest
	8,  // 7: receipts.v1.ReceiptsService.GetReceipt:input_type -> receipts.v1.GetReceiptRequest
	10, // 8: receipts.v1.ReceiptsService.ExportReceipts:input_type -> receipts.v1.ExportReceiptsRequest
	3,  // 9: receipts.v1.IngestionService.IngestFile:output_type -> receipts.v1.IngestFileResponse
	5,  // 10: receipts.v1.IngestionService.IngestDirectory:output_type -> receipts.v1.IngestDirectoryResponse
	7,  // 11: receipts.v1.ReceiptsService.ListReceipts:output_type -> receipts.v1.ListReceiptsResponse
	9,  // 12: receipts.v1.ReceiptsService.GetReceipt:output_type -> receipts.v1.GetReceiptResponse
	11, // 13: receipts.v1.ReceiptsService.ExportReceipts:output_type -> receipts.v1.ExportReceiptsResponse
	9,  // [9:14] is the sub-list for method output_type
	4,  // [4:9] is the sub-list for method input_type
	4,  // [4:4] is the sub-list for extension type_name
	4,  // [4:4] is the sub-list for extension extendee
	0,  // [0:4] is the sub-list for field type_name
}

func init() { file_receipts_v1_receipts_proto_init() }
func file_receipts_v1_receipts_proto_init() {
	if File_receipts_v1_receipts_proto != nil {
		return
	}
	type x struct{}
	out := protoimpl.TypeBuilder{
		File: protoimpl.DescBuilder{
			GoPackagePath: reflect.TypeOf(x{}).PkgPath(),
			RawDescriptor: unsafe.Slice(unsafe.StringData(file_receipts_v1_receipts_proto_rawDesc), len(file_receipts_v1_receipts_proto_rawDesc)),
			NumEnums:      0,
			NumMessages:   12,
			NumExtensions: 0,
			NumServices:   2,
		},
		GoTypes:           file_receipts_v1_receipts_proto_goTypes,
		DependencyIndexes: file_receipts_v1_receipts_proto_depIdxs,
		MessageInfos:      file_receipts_v1_receipts_proto_msgTypes,
	}.Build()
	File_receipts_v1_receipts_proto = out.File
	file_receipts_v1_receipts_proto_goTypes = nil
	file_receipts_v1_receipts_proto_depIdxs = nil
}
