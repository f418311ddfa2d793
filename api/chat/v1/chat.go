package v1

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/structpb"
)

// File_chat_v1_chat_proto describes chat/v1/chat.proto:
//
//	syntax = "proto3";
//	package chat.v1;
//	import "google/protobuf/struct.proto";
//	service ChatService {
//	  rpc Chat(google.protobuf.Struct) returns (google.protobuf.Struct);
//	}
//
// It is registered globally so server reflection can serve it.
var File_chat_v1_chat_proto = buildFileDescriptor()

func buildFileDescriptor() protoreflect.FileDescriptor {
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String("chat/v1/chat.proto"),
		Package:    proto.String("chat.v1"),
		Dependency: []string{"google/protobuf/struct.proto"},
		Syntax:     proto.String("proto3"),
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("ChatService"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       proto.String("Chat"),
				InputType:  proto.String(".google.protobuf.Struct"),
				OutputType: proto.String(".google.protobuf.Struct"),
			}},
		}},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/lk2023060901/chat-backend/api/chat/v1;v1"),
		},
	}

	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		panic("chat/v1: invalid file descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("chat/v1: " + err.Error())
	}
	return fd
}
